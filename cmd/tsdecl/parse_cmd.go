package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/driver"
)

type parseOptions struct {
	json  bool
	paths []string
}

func parseParseArguments(args []string) (parseOptions, error) {
	var opts parseOptions
	for _, arg := range args {
		switch {
		case arg == "--json":
			opts.json = true
		case strings.HasPrefix(arg, "-"):
			return opts, fmt.Errorf("unknown tsdecl parse flag '%s'", arg)
		default:
			opts.paths = append(opts.paths, arg)
		}
	}
	return opts, nil
}

type jsonReport struct {
	Files       []jsonFile       `json:"files"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonFile struct {
	Path         string             `json:"path"`
	Declarations []*ast.Declaration `json:"declarations"`
}

type jsonDiagnostic struct {
	Kind    driver.DiagnosticKind `json:"kind"`
	Message string                `json:"message"`
	Path    string                `json:"path"`
	Line    int                   `json:"line"`
	Column  int                   `json:"column"`
}

func runParse(args []string, global globalOptions) int {
	opts, err := parseParseArguments(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	cfg, logger, ok := setup(global)
	if !ok {
		return exitFailure
	}
	defer logger.Sync()

	paths := opts.paths
	if len(paths) == 0 {
		for _, source := range cfg.Sources {
			if !filepath.IsAbs(source) {
				source = filepath.Join(cfg.Root, source)
			}
			paths = append(paths, source)
		}
	}

	loader, err := driver.NewLoader(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise parser: %v\n", err)
		return exitFailure
	}
	defer loader.Close()

	result, err := loader.Load(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	if opts.json {
		if err := writeJSONReport(result); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write json: %v\n", err)
			return exitFailure
		}
	} else {
		for _, file := range result.Files {
			for _, decl := range file.Module.Declarations {
				pos := decl.Span().Start
				fmt.Fprintf(os.Stdout, "%s:%d:%d\t%s\n", file.Path, pos.Line, pos.Column, decl)
			}
		}
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, driver.DescribeDiagnostic(diag))
	}
	return exitCodeFor(result)
}

func exitCodeFor(result *driver.Result) int {
	switch {
	case result.HasKind(driver.KindInternal):
		return exitInternal
	case result.HasKind(driver.KindSyntax):
		return exitFailure
	default:
		return exitOK
	}
}

func writeJSONReport(result *driver.Result) error {
	report := jsonReport{
		Files:       make([]jsonFile, 0, len(result.Files)),
		Diagnostics: make([]jsonDiagnostic, 0, len(result.Diagnostics)),
	}
	for _, file := range result.Files {
		report.Files = append(report.Files, jsonFile{Path: file.Path, Declarations: file.Module.Declarations})
	}
	for _, diag := range result.Diagnostics {
		report.Diagnostics = append(report.Diagnostics, jsonDiagnostic{
			Kind:    diag.Kind,
			Message: diag.Message,
			Path:    diag.Location.Path,
			Line:    diag.Location.Line,
			Column:  diag.Location.Column,
		})
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
