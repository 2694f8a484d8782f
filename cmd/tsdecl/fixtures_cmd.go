package main

import (
	"fmt"
	"os"
	"strings"

	"tsdecl/frontend-go/pkg/driver"
)

func runFixtures(args []string, global globalOptions) int {
	verbose := false
	var names []string
	for _, arg := range args {
		switch {
		case arg == "--verbose" || arg == "-v":
			verbose = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown tsdecl fixtures flag '%s'\n", arg)
			return exitUsage
		default:
			names = append(names, arg)
		}
	}

	cfg, logger, ok := setup(global)
	if !ok {
		return exitFailure
	}
	defer logger.Sync()

	if len(names) == 0 {
		names = cfg.FixtureOrder
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stdout, "tsdecl fixtures: no suites configured")
		return exitOK
	}
	for _, name := range names {
		if _, ok := cfg.Fixtures[name]; !ok {
			fmt.Fprintf(os.Stderr, "unknown fixture suite '%s'\n", name)
			return exitUsage
		}
	}

	loader, err := driver.NewLoader(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise parser: %v\n", err)
		return exitFailure
	}
	defer loader.Close()
	runner := driver.NewFixtureRunner(loader, driver.NewGitFetcher(cfg.CacheDir, logger), logger)

	total, failed := 0, 0
	for _, name := range names {
		dir, err := runner.ResolveSuite(cfg, cfg.Fixtures[name])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailure
		}
		report, err := runner.RunSuite(name, dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailure
		}
		for _, res := range report.Results {
			switch {
			case !res.Passed:
				fmt.Fprintf(os.Stdout, "FAIL %s %s: %s\n", name, res.Case.ID(), res.Problem)
			case verbose:
				fmt.Fprintf(os.Stdout, "ok   %s %s\n", name, res.Case.ID())
			}
		}
		total += len(report.Results)
		failed += report.Failed()
	}

	fmt.Fprintf(os.Stdout, "%d cases, %d failed\n", total, failed)
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}
