package main

import (
	"fmt"
	"os"
	"strings"
)

const cliToolVersion = "tsdecl 0.1.0-dev"

const (
	exitOK       = 0
	exitFailure  = 1
	exitInternal = 2
	exitUsage    = 64
)

type globalOptions struct {
	configPath string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if len(remaining) == 0 {
		printUsage()
		return exitUsage
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "parse":
		return runParse(remaining[1:], opts)
	case "fixtures":
		return runFixtures(remaining[1:], opts)
	case "repl":
		return runRepl(remaining[1:], opts)
	default:
		fmt.Fprintf(os.Stderr, "unknown command '%s'\n", remaining[0])
		printUsage()
		return exitUsage
	}
}

// parseGlobalFlags strips the options accepted before the command name.
func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "--log-level":
			value := ""
			if i+1 < len(args) {
				value = args[i+1]
			}
			value, err := expectFlagValue(arg, value)
			if err != nil {
				return opts, nil, err
			}
			opts.set(arg, value)
			i++
		case strings.HasPrefix(arg, "--config="), strings.HasPrefix(arg, "--log-level="):
			name, value, _ := strings.Cut(arg, "=")
			value, err := expectFlagValue(name, value)
			if err != nil {
				return opts, nil, err
			}
			opts.set(name, value)
		default:
			return opts, args[i:], nil
		}
	}
	return opts, nil, nil
}

func (o *globalOptions) set(flag, value string) {
	switch flag {
	case "--config":
		o.configPath = value
	case "--log-level":
		o.logLevel = strings.ToLower(value)
	}
}

func expectFlagValue(flag string, value string) (string, error) {
	if value == "" || strings.HasPrefix(value, "-") {
		return "", fmt.Errorf("%s expects a value", flag)
	}
	return value, nil
}
