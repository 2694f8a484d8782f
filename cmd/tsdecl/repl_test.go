package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"tsdecl/frontend-go/pkg/driver"
)

func newTestSession(t *testing.T) *replSession {
	t.Helper()
	loader, err := driver.NewLoader(driver.DefaultConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	t.Cleanup(loader.Close)
	return &replSession{loader: loader}
}

func TestReplSessionTracksPositions(t *testing.T) {
	session := newTestSession(t)

	out, incomplete, err := session.eval("let a: number;")
	if err != nil || incomplete {
		t.Fatalf("eval: out=%v incomplete=%v err=%v", out, incomplete, err)
	}
	if strings.Join(out, "|") != "1:5\ta: number" {
		t.Fatalf("out = %q", out)
	}

	out, _, err = session.eval("const [x, y] = pair,\n  z: string = 'z';")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if strings.Join(out, "|") != "2:7\t[x, y]|3:3\tz: string" {
		t.Fatalf("out = %q", out)
	}
	if len(session.declarations) != 3 {
		t.Fatalf("declarations = %v", session.declarations)
	}

	session.reset()
	if out, _, _ := session.eval("let b;"); strings.Join(out, "|") != "1:5\tb" {
		t.Fatalf("after reset out = %q", out)
	}
}

func TestReplSessionIncompleteAndErrors(t *testing.T) {
	session := newTestSession(t)

	_, incomplete, err := session.eval("let x: ")
	if !incomplete || err != nil {
		t.Fatalf("expected incomplete input, got incomplete=%v err=%v", incomplete, err)
	}
	if session.lines != 0 {
		t.Fatalf("incomplete input advanced lines to %d", session.lines)
	}

	if _, _, err := session.eval("let ok;"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	_, incomplete, err = session.eval("let [a = 1] = xs;")
	if incomplete || err == nil {
		t.Fatalf("expected error, got incomplete=%v err=%v", incomplete, err)
	}
	if !strings.HasPrefix(err.Error(), "parser: line 2, column 6") {
		t.Fatalf("error = %q", err)
	}
}

// scriptedInput replays lines, then returns err (io.EOF when unset).
type scriptedInput struct {
	lines   []string
	err     error
	prompts int
}

func (s *scriptedInput) Prompt(string) (string, error) {
	s.prompts++
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestReplLoopEvaluatesUntilEOF(t *testing.T) {
	session := newTestSession(t)
	in := &scriptedInput{lines: []string{"let a: number;", "", "let b: ", "string;", ":list"}}
	var stdout, stderr bytes.Buffer
	var history []string

	code := replLoop(in, session, func(entry string) { history = append(history, entry) }, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	want := "1:5\ta: number\n2:5\tb: string\na: number\nb: string\n\n"
	if stdout.String() != want {
		t.Fatalf("stdout = %q, want %q", stdout.String(), want)
	}
	if strings.Join(history, "|") != "let a: number;|let b:  string;" {
		t.Fatalf("history = %q", history)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr: %s", stderr.String())
	}
}

func TestReplLoopStopsOnPromptError(t *testing.T) {
	session := newTestSession(t)
	in := &scriptedInput{lines: []string{"let a;"}, err: errors.New("terminal gone")}
	var stdout, stderr bytes.Buffer

	code := replLoop(in, session, func(string) {}, &stdout, &stderr)
	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "repl: read input: terminal gone") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if in.prompts != 2 {
		t.Fatalf("prompted %d times, want 2", in.prompts)
	}
}
