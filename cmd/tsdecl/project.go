package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tsdecl/frontend-go/pkg/driver"
)

var errConfigNotFound = errors.New(driver.ConfigFileName + " not found")

// findConfig walks up from start looking for the project file.
func findConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, driver.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errConfigNotFound
		}
		dir = parent
	}
}

func loadProject(opts globalOptions) (*driver.Config, error) {
	if opts.configPath != "" {
		return driver.LoadConfig(opts.configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	path, err := findConfig(cwd)
	if errors.Is(err, errConfigNotFound) {
		return driver.DefaultConfig(cwd), nil
	}
	if err != nil {
		return nil, err
	}
	return driver.LoadConfig(path)
}

// newLogger builds the CLI logger. Output always goes to stderr so stdout
// stays machine readable.
func newLogger(cfg driver.LogConfig, levelOverride string) (*zap.Logger, error) {
	levelName := cfg.Level
	if levelOverride != "" {
		levelName = levelOverride
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

// setup loads the project and its logger, reporting failures on stderr.
func setup(opts globalOptions) (*driver.Config, *zap.Logger, bool) {
	cfg, err := loadProject(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return nil, nil, false
	}
	logger, err := newLogger(cfg.Log, opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, false
	}
	return cfg, logger, true
}
