package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/driver"
	"tsdecl/frontend-go/pkg/parser"
)

const (
	replPrompt      = "tsdecl> "
	replContinue    = "...     "
	replHistoryFile = ".tsdecl_history"
)

// replSession accumulates snippets as if they were consecutive lines of one
// file, so reported positions keep counting across inputs.
type replSession struct {
	loader       *driver.Loader
	lines        int
	declarations []*ast.Declaration
}

// eval parses src. incomplete is reported when src ends in the middle of a
// construct; nothing is recorded in that case.
func (s *replSession) eval(src string) (out []string, incomplete bool, err error) {
	mod, err := s.loader.ParseSource([]byte(src))
	if parser.IsIncomplete(err) {
		return nil, true, nil
	}
	if err != nil {
		diag, ok := driver.DiagnosticFromError("", err)
		if !ok {
			return nil, false, err
		}
		diag.Location.Line += s.lines
		s.lines += strings.Count(src, "\n") + 1
		return nil, false, errors.New(driver.DescribeDiagnostic(diag))
	}

	ast.ShiftSpans(mod, s.lines)
	s.lines += strings.Count(src, "\n") + 1
	for _, decl := range mod.Declarations {
		pos := decl.Span().Start
		out = append(out, fmt.Sprintf("%d:%d\t%s", pos.Line, pos.Column, decl))
	}
	s.declarations = append(s.declarations, mod.Declarations...)
	return out, false, nil
}

func (s *replSession) reset() {
	s.lines = 0
	s.declarations = nil
}

func runRepl(args []string, global globalOptions) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "tsdecl repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return exitUsage
	}
	cfg, logger, ok := setup(global)
	if !ok {
		return exitFailure
	}
	defer logger.Sync()

	loader, err := driver.NewLoader(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise parser: %v\n", err)
		return exitFailure
	}
	defer loader.Close()
	session := &replSession{loader: loader}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, replHistoryFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(os.Stdout, cliToolVersion+" (type :help for commands)")
	return replLoop(ln, session, ln.AppendHistory, os.Stdout, os.Stderr)
}

// prompter is the part of *liner.State the loop reads input through.
type prompter interface {
	Prompt(prompt string) (string, error)
}

func replLoop(in prompter, session *replSession, remember func(string), stdout, stderr io.Writer) int {
	for {
		src, out, err := readSnippet(in, session)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return exitOK
		}
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit", ":q":
			return exitOK
		case ":help":
			fmt.Fprintln(stdout, ":list  show every declaration so far\n:reset forget declarations and positions\n:quit  leave")
			continue
		case ":list":
			for _, decl := range session.declarations {
				fmt.Fprintln(stdout, decl)
			}
			continue
		case ":reset":
			session.reset()
			continue
		}
		remember(strings.ReplaceAll(src, "\n", " "))
		for _, line := range out.lines {
			fmt.Fprintln(stdout, line)
		}
		if out.err != nil {
			fmt.Fprintln(stderr, out.err)
		}
	}
}

type replOutput struct {
	lines []string
	err   error
}

// readSnippet keeps prompting while the accumulated input is incomplete.
// End of input and an aborted prompt are reported as io.EOF.
func readSnippet(in prompter, session *replSession) (string, replOutput, error) {
	var b strings.Builder
	for {
		prompt := replPrompt
		if b.Len() > 0 {
			prompt = replContinue
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", replOutput{}, io.EOF
		}
		if err != nil {
			return "", replOutput{}, fmt.Errorf("repl: read input: %w", err)
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" {
			return src, replOutput{}, nil
		}

		lines, incomplete, err := session.eval(src)
		if incomplete {
			continue
		}
		return src, replOutput{lines: lines, err: err}, nil
	}
}
