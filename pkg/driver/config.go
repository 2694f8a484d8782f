package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project file looked up by the CLI.
const ConfigFileName = "tsdecl.yml"

// HomeEnv overrides the cache directory used for fetched fixture suites.
const HomeEnv = "TSDECL_HOME"

// Config represents the parsed contents of tsdecl.yml.
type Config struct {
	Path         string
	Root         string
	Name         string
	Sources      []string
	Extensions   []string
	Exclude      []string
	Fixtures     map[string]*FixtureSource
	FixtureOrder []string
	CacheDir     string
	Log          LogConfig
}

// FixtureSource locates one fixture suite, either on disk or in a git repository.
type FixtureSource struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Dir    string
}

// IsGit reports whether the suite is fetched from a repository.
func (f *FixtureSource) IsGit() bool {
	return f != nil && f.Git != ""
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// ValidationError aggregates validation failures of a config or suite file.
type ValidationError struct {
	Subject string
	Issues  []string
}

func (e *ValidationError) Error() string {
	subject := e.Subject
	if subject == "" {
		subject = "config"
	}
	if len(e.Issues) == 0 {
		return subject + ": invalid configuration"
	}
	var b strings.Builder
	b.WriteString(subject)
	b.WriteString(" validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the configuration used when no tsdecl.yml exists.
func DefaultConfig(root string) *Config {
	cfg := configFile{}.toConfig("", root)
	cfg.Name = filepath.Base(root)
	return cfg
}

// LoadConfig parses tsdecl.yml from disk, returning a validated config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: %s is empty", absPath)
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg := raw.toConfig(absPath, filepath.Dir(absPath))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	errs := ValidationError{Subject: "config"}
	if c.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, ext := range c.Extensions {
		switch {
		case !strings.HasPrefix(ext, "."):
			errs.Issues = append(errs.Issues, fmt.Sprintf("extensions[%d] %q must start with '.'", i, ext))
		case ext == ".tsx":
			errs.Issues = append(errs.Issues, "extensions: .tsx sources are not supported")
		}
	}
	for _, name := range c.FixtureOrder {
		for _, issue := range c.Fixtures[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures.%s: %s", name, issue))
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (f *FixtureSource) validate() []string {
	var errs []string
	if f.Path != "" && f.Git != "" {
		errs = append(errs, "path and git are mutually exclusive")
	}
	if f.Path == "" && f.Git == "" {
		errs = append(errs, "must specify path or git")
	}
	pins := 0
	for _, pin := range []string{f.Rev, f.Tag, f.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 0 && f.Git == "" {
		errs = append(errs, "rev, tag and branch apply only to git suites")
	}
	if pins > 1 {
		errs = append(errs, "specify at most one of rev, tag or branch")
	}
	if f.Dir != "" && filepath.IsAbs(f.Dir) {
		errs = append(errs, fmt.Sprintf("dir %q must be relative to the repository", f.Dir))
	}
	return errs
}

// SuitePath returns the local directory of a path-based suite.
func (c *Config) SuitePath(source *FixtureSource) string {
	if filepath.IsAbs(source.Path) {
		return source.Path
	}
	return filepath.Join(c.Root, source.Path)
}

type configFile struct {
	Name       string     `yaml:"name"`
	Sources    stringList `yaml:"sources"`
	Extensions stringList `yaml:"extensions"`
	Exclude    stringList `yaml:"exclude"`
	Fixtures   fixtureMap `yaml:"fixtures"`
	CacheDir   string     `yaml:"cache_dir"`
	Log        struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func (cf configFile) toConfig(path, root string) *Config {
	cfg := &Config{
		Path:         path,
		Root:         root,
		Name:         strings.TrimSpace(cf.Name),
		Sources:      cf.Sources.Clone(),
		Extensions:   cf.Extensions.Clone(),
		Exclude:      cf.Exclude.Clone(),
		Fixtures:     make(map[string]*FixtureSource, len(cf.Fixtures.items)),
		FixtureOrder: make([]string, 0, len(cf.Fixtures.items)),
		CacheDir:     resolveCacheDir(root, strings.TrimSpace(cf.CacheDir)),
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(cf.Log.Level)),
			Format: strings.ToLower(strings.TrimSpace(cf.Log.Format)),
		},
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"."}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".ts"}
	}
	if cf.Exclude == nil {
		cfg.Exclude = []string{"node_modules"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	for _, item := range cf.Fixtures.items {
		if _, exists := cfg.Fixtures[item.Name]; exists {
			continue
		}
		cfg.Fixtures[item.Name] = item
		cfg.FixtureOrder = append(cfg.FixtureOrder, item.Name)
	}
	return cfg
}

func resolveCacheDir(root, configured string) string {
	if env := strings.TrimSpace(os.Getenv(HomeEnv)); env != "" {
		return env
	}
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured
		}
		return filepath.Join(root, configured)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(root, ".tsdecl")
	}
	return filepath.Join(home, ".tsdecl")
}

type fixtureMap struct {
	items []*FixtureSource
}

func (fm *fixtureMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		fm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("config: fixtures must be a mapping")
	}
	items := make([]*FixtureSource, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("config: fixtures must not use empty keys")
		}
		source, err := decodeFixtureSource(value.Content[i+1])
		if err != nil {
			return fmt.Errorf("config: fixture %q: %w", key, err)
		}
		source.Name = key
		items = append(items, source)
	}
	fm.items = items
	return nil
}

// decodeFixtureSource accepts either a bare path or a mapping.
func decodeFixtureSource(value *yaml.Node) (*FixtureSource, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		return &FixtureSource{Path: strings.TrimSpace(value.Value)}, nil
	case yaml.MappingNode:
		var raw struct {
			Path   string `yaml:"path"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Dir    string `yaml:"dir"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, err
		}
		return &FixtureSource{
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Dir:    strings.TrimSpace(raw.Dir),
		}, nil
	default:
		return nil, fmt.Errorf("expected path or mapping but found %s", value.ShortTag())
	}
}

type stringList []string

func (l stringList) Clone() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = stringList{}
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("config: expected string or sequence for list but found %s", value.ShortTag())
	}
}
