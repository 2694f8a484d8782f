package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tsdecl [--config tsdecl.yml] [--log-level level] parse [--json] [paths ...]")
	fmt.Fprintln(os.Stderr, "  tsdecl [--config tsdecl.yml] [--log-level level] fixtures [--verbose] [suite ...]")
	fmt.Fprintln(os.Stderr, "  tsdecl repl")
	fmt.Fprintln(os.Stderr, "  tsdecl version")
}
