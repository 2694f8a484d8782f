package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/parser"
)

// File is one parsed source file.
type File struct {
	Path   string
	Module *ast.Module
}

// Result collects the files that parsed and the diagnostics of those that did not.
type Result struct {
	Files       []*File
	Diagnostics []Diagnostic
	NodeOrigins map[ast.Node]string
}

// HasKind reports whether any diagnostic of the given kind was recorded.
func (r *Result) HasKind(kind DiagnosticKind) bool {
	for _, diag := range r.Diagnostics {
		if diag.Kind == kind {
			return true
		}
	}
	return false
}

// Loader discovers source files and extracts their declarations.
type Loader struct {
	parser     *parser.DeclarationParser
	logger     *zap.Logger
	extensions []string
	exclude    map[string]struct{}
}

// NewLoader constructs a loader using the source settings of cfg. A nil
// logger discards log output.
func NewLoader(cfg *Config, logger *zap.Logger) (*Loader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("loader: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dp, err := parser.NewDeclarationParser()
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		exclude[name] = struct{}{}
	}
	return &Loader{
		parser:     dp,
		logger:     logger.Named("loader"),
		extensions: append([]string(nil), cfg.Extensions...),
		exclude:    exclude,
	}, nil
}

// Close releases parser resources.
func (l *Loader) Close() {
	if l == nil {
		return
	}
	if l.parser != nil {
		l.parser.Close()
		l.parser = nil
	}
}

// Discover expands directories into the matching source files beneath them.
// Explicit file arguments are kept regardless of their extension.
func (l *Loader) Discover(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("loader: stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if _, skip := l.exclude[d.Name()]; skip && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if l.matchesExtension(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("loader: walk %s: %w", root, err)
		}
		sort.Strings(found)
		for _, path := range found {
			add(path)
		}
	}
	l.logger.Debug("discovered sources", zap.Int("files", len(files)), zap.Strings("roots", paths))
	return files, nil
}

func (l *Loader) matchesExtension(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	ext := filepath.Ext(path)
	for _, want := range l.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ParseSource extracts the declarations of an in-memory source.
func (l *Loader) ParseSource(source []byte) (*ast.Module, error) {
	if l == nil || l.parser == nil {
		return nil, fmt.Errorf("loader: closed")
	}
	return l.parser.ParseModule(source)
}

// ParseFile reads, decodes and parses a single file.
func (l *Loader) ParseFile(path string) (*File, error) {
	source, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	mod, err := l.ParseSource(source)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Module: mod}, nil
}

// Load parses every file found under paths. Files that fail to parse are
// reported as diagnostics; I/O failures abort the load.
func (l *Loader) Load(paths []string) (*Result, error) {
	files, err := l.Discover(paths)
	if err != nil {
		return nil, err
	}
	result := &Result{NodeOrigins: make(map[ast.Node]string)}
	for _, path := range files {
		file, err := l.ParseFile(path)
		if err != nil {
			diag, ok := DiagnosticFromError(path, err)
			if !ok {
				return nil, err
			}
			l.logger.Debug("parse failed", zap.String("path", path), zap.String("kind", string(diag.Kind)), zap.Error(err))
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}
		ast.AnnotateOrigins(file.Module, path, result.NodeOrigins)
		result.Files = append(result.Files, file)
		l.logger.Debug("parsed", zap.String("path", path), zap.Int("declarations", len(file.Module.Declarations)))
	}
	l.logger.Info("load complete",
		zap.Int("files", len(result.Files)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	return result, nil
}
