package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tsdecl/frontend-go/pkg/ast"
	"tsdecl/frontend-go/pkg/schema"
)

// FixtureCase is one expectation read from a suite file. A case either parses
// Source or builds a node directly from Raw, a YAML encoding of a raw tuple.
type FixtureCase struct {
	File    string
	Name    string
	Source  string
	Raw     *yaml.Node
	Build   ast.NodeType
	Expect  []string
	Error   DiagnosticKind
	Message string
	Path    string
}

// ID names the case within its suite.
func (c *FixtureCase) ID() string {
	return c.File + "/" + c.Name
}

// CaseResult records the outcome of a single case.
type CaseResult struct {
	Case    *FixtureCase
	Passed  bool
	Got     []string
	Kind    DiagnosticKind
	Err     error
	Problem string
}

// SuiteReport aggregates the results of one suite.
type SuiteReport struct {
	Name    string
	Dir     string
	Results []CaseResult
}

// Failed counts failing cases.
func (r *SuiteReport) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if !res.Passed {
			failed++
		}
	}
	return failed
}

type fixtureFile struct {
	Cases []fixtureCaseYAML `yaml:"cases"`
}

type fixtureCaseYAML struct {
	Name    string     `yaml:"name"`
	Source  *string    `yaml:"source"`
	Raw     yaml.Node  `yaml:"raw"`
	Build   string     `yaml:"build"`
	Expect  stringList `yaml:"expect"`
	Error   string     `yaml:"error"`
	Message string     `yaml:"message"`
	Path    string     `yaml:"path"`
}

// LoadSuite reads every *.yml and *.yaml file in dir, in name order.
func LoadSuite(dir string) ([]*FixtureCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if !entry.IsDir() && (ext == ".yml" || ext == ".yaml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var cases []*FixtureCase
	for _, name := range names {
		loaded, err := LoadFixtureFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		cases = append(cases, loaded...)
	}
	return cases, nil
}

// LoadFixtureFile parses and validates a single suite file.
func LoadFixtureFile(path string) ([]*FixtureCase, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw fixtureFile
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	errs := ValidationError{Subject: "fixtures"}
	cases := make([]*FixtureCase, 0, len(raw.Cases))
	for i := range raw.Cases {
		fc, issues := raw.Cases[i].toCase(base)
		for _, issue := range issues {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: cases[%d]: %s", path, i, issue))
		}
		cases = append(cases, fc)
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cases, nil
}

func (y *fixtureCaseYAML) toCase(file string) (*FixtureCase, []string) {
	var issues []string
	fc := &FixtureCase{
		File:    file,
		Name:    strings.TrimSpace(y.Name),
		Expect:  y.Expect.Clone(),
		Error:   DiagnosticKind(strings.TrimSpace(y.Error)),
		Message: y.Message,
		Path:    strings.TrimSpace(y.Path),
		Build:   ast.NodeType(strings.TrimSpace(y.Build)),
	}
	if fc.Name == "" {
		issues = append(issues, "name must be provided")
	}
	hasRaw := y.Raw.Kind != 0
	switch {
	case y.Source != nil && hasRaw:
		issues = append(issues, "source and raw are mutually exclusive")
	case y.Source == nil && !hasRaw:
		issues = append(issues, "one of source or raw is required")
	case y.Source != nil:
		fc.Source = *y.Source
		if fc.Build != "" {
			issues = append(issues, "build applies only to raw cases")
		}
	default:
		fc.Raw = &y.Raw
		if fc.Build == "" {
			fc.Build = ast.NodeDeclaration
		}
		if _, ok := builders[fc.Build]; !ok {
			issues = append(issues, fmt.Sprintf("build %q is not a tuple-built node", fc.Build))
		}
	}
	switch fc.Error {
	case "":
		if y.Expect == nil {
			issues = append(issues, "expect is required unless error is set")
		}
		if fc.Raw != nil && len(fc.Expect) != 1 {
			issues = append(issues, "raw cases expect exactly one rendering")
		}
		if fc.Path != "" {
			issues = append(issues, "path applies only to internal errors")
		}
	case KindSyntax, KindInternal:
		if len(fc.Expect) > 0 {
			issues = append(issues, "expect and error are mutually exclusive")
		}
	default:
		issues = append(issues, fmt.Sprintf("error %q must be syntax or internal", fc.Error))
	}
	return fc, issues
}

type nodeBuilder func(ast.Span, any) (ast.Node, error)

func adapt[N ast.Node](build func(ast.Span, any) (N, error)) nodeBuilder {
	return func(span ast.Span, raw any) (ast.Node, error) {
		node, err := build(span, raw)
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}

// builders lists every node constructed from a raw tuple.
var builders = map[ast.NodeType]nodeBuilder{
	ast.NodeDeclaration:        adapt(ast.BuildDeclaration),
	ast.NodeListPattern:        adapt(ast.BuildListPattern),
	ast.NodeRecordPattern:      adapt(ast.BuildRecordPattern),
	ast.NodeRecordPatternField: adapt(ast.BuildRecordPatternField),
	ast.NodeRestPattern:        adapt(ast.BuildRestPattern),
	ast.NodeGenericType:        adapt(ast.BuildGenericType),
	ast.NodeTupleType:          adapt(ast.BuildTupleType),
	ast.NodeUnionType:          adapt(ast.BuildUnionType),
	ast.NodeFunctionType:       adapt(ast.BuildFunctionType),
}

// shorthand keys accepted in raw YAML next to the node type names.
var rawAliases = map[string]ast.NodeType{
	"list":    ast.NodeListPattern,
	"record":  ast.NodeRecordPattern,
	"field":   ast.NodeRecordPatternField,
	"rest":    ast.NodeRestPattern,
	"tuple":   ast.NodeTupleType,
	"union":   ast.NodeUnionType,
	"fn":      ast.NodeFunctionType,
	"generic": ast.NodeGenericType,
	"decl":    ast.NodeDeclaration,
}

// RawFormatError reports YAML that cannot be read as a raw value at all.
type RawFormatError struct {
	Line    int
	Column  int
	Message string
}

func (e *RawFormatError) Error() string {
	return fmt.Sprintf("fixtures: raw value at %d:%d: %s", e.Line, e.Column, e.Message)
}

func rawFormatError(node *yaml.Node, format string, args ...any) error {
	return &RawFormatError{Line: node.Line, Column: node.Column, Message: fmt.Sprintf(format, args...)}
}

// DecodeRaw turns the YAML encoding of a raw tuple into the Go values the
// builders accept. Sequences become []any, null becomes nil, other scalars
// become marker tokens, and single-key mappings become nodes. Nested nodes
// are built through their schemas, so a malformed nested tuple surfaces as
// an *ast.ShapeError.
func DecodeRaw(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return nil, rawFormatError(node, "empty document")
		}
		return DecodeRaw(node.Content[0])
	case yaml.AliasNode:
		return DecodeRaw(node.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := DecodeRaw(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return nil, nil
		}
		return ast.NewToken(node.Value, yamlSpan(node)), nil
	case yaml.MappingNode:
		return decodeRawNode(node)
	default:
		return nil, rawFormatError(node, "unsupported yaml node")
	}
}

func decodeRawNode(node *yaml.Node) (any, error) {
	if len(node.Content) != 2 {
		return nil, rawFormatError(node, "node mappings take exactly one key")
	}
	key, value := node.Content[0].Value, node.Content[1]
	span := yamlSpan(node)

	switch key {
	case "ident":
		return setSpan(ast.NewIdentifier(value.Value), span), nil
	case "type":
		return setSpan(ast.NewNamedType(value.Value), span), nil
	case "literal":
		return setSpan(ast.NewLiteralType(value.Value), span), nil
	case "array":
		element, err := DecodeRaw(value)
		if err != nil {
			return nil, err
		}
		typ, ok := ast.IsType(element)
		if !ok {
			return nil, rawFormatError(value, "array element must be a type")
		}
		return setSpan(ast.NewArrayType(typ), span), nil
	case "generic":
		if value.Kind != yaml.MappingNode {
			return nil, rawFormatError(value, "generic takes {name, args}")
		}
		var spec struct {
			Name string    `yaml:"name"`
			Args yaml.Node `yaml:"args"`
		}
		if err := value.Decode(&spec); err != nil {
			return nil, rawFormatError(value, "%v", err)
		}
		args := []any{}
		if spec.Args.Kind != 0 {
			decoded, err := DecodeRaw(&spec.Args)
			if err != nil {
				return nil, err
			}
			list, ok := decoded.([]any)
			if !ok {
				return nil, rawFormatError(&spec.Args, "generic args must be a sequence")
			}
			args = list
		}
		base := setSpan(ast.NewNamedType(spec.Name), span)
		return builders[ast.NodeGenericType](span, []any{base, args})
	}

	kind, ok := rawAliases[key]
	if !ok {
		kind = ast.NodeType(key)
	}
	build, ok := builders[kind]
	if !ok {
		return nil, rawFormatError(node, "unknown node %q", key)
	}
	raw, err := DecodeRaw(value)
	if err != nil {
		return nil, err
	}
	return build(span, raw)
}

func setSpan[N ast.Node](node N, span ast.Span) N {
	ast.SetSpan(node, span)
	return node
}

func yamlSpan(node *yaml.Node) ast.Span {
	pos := ast.Position{Line: node.Line, Column: node.Column}
	return ast.Span{Start: pos, End: pos}
}

// FixtureRunner evaluates suites against the parser and the node builders.
type FixtureRunner struct {
	loader  *Loader
	fetcher *GitFetcher
	logger  *zap.Logger
}

// NewFixtureRunner constructs a runner. The fetcher may be nil when no git
// suites are configured.
func NewFixtureRunner(loader *Loader, fetcher *GitFetcher, logger *zap.Logger) *FixtureRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixtureRunner{loader: loader, fetcher: fetcher, logger: logger.Named("fixtures")}
}

// ResolveSuite returns the local directory holding the suite's files,
// fetching git suites first.
func (r *FixtureRunner) ResolveSuite(cfg *Config, source *FixtureSource) (string, error) {
	if !source.IsGit() {
		return cfg.SuitePath(source), nil
	}
	if r.fetcher == nil {
		return "", fmt.Errorf("fixtures: suite %q needs git but no fetcher is configured", source.Name)
	}
	checkout, err := r.fetcher.Fetch(source)
	if err != nil {
		return "", err
	}
	r.logger.Info("fetched suite",
		zap.String("suite", source.Name),
		zap.String("commit", checkout.Commit),
		zap.String("dir", checkout.Dir),
	)
	return checkout.SuiteDir(source), nil
}

// RunSuite loads and evaluates every case of the suite in dir.
func (r *FixtureRunner) RunSuite(name, dir string) (*SuiteReport, error) {
	cases, err := LoadSuite(dir)
	if err != nil {
		return nil, err
	}
	report := &SuiteReport{Name: name, Dir: dir, Results: make([]CaseResult, 0, len(cases))}
	for _, fc := range cases {
		res := r.RunCase(fc)
		if !res.Passed {
			r.logger.Debug("case failed", zap.String("suite", name), zap.String("case", fc.ID()), zap.String("problem", res.Problem))
		}
		report.Results = append(report.Results, res)
	}
	r.logger.Info("suite complete",
		zap.String("suite", name),
		zap.Int("cases", len(report.Results)),
		zap.Int("failed", report.Failed()),
	)
	return report, nil
}

// RunCase evaluates a single case.
func (r *FixtureRunner) RunCase(fc *FixtureCase) CaseResult {
	res := CaseResult{Case: fc}
	if fc.Raw != nil {
		res.Got, res.Err = buildRaw(fc)
	} else {
		res.Got, res.Err = r.parseCase(fc)
	}

	if res.Err != nil {
		diag, ok := DiagnosticFromError("", res.Err)
		if !ok {
			res.Problem = fmt.Sprintf("unexpected error: %v", res.Err)
			return res
		}
		res.Kind = diag.Kind
	}

	switch {
	case fc.Error == "" && res.Err != nil:
		res.Problem = fmt.Sprintf("unexpected %s error: %v", res.Kind, res.Err)
	case fc.Error != "" && res.Err == nil:
		res.Problem = fmt.Sprintf("expected %s error, got %q", fc.Error, res.Got)
	case fc.Error != "" && res.Kind != fc.Error:
		res.Problem = fmt.Sprintf("expected %s error, got %s error: %v", fc.Error, res.Kind, res.Err)
	case fc.Error != "" && fc.Message != "" && !strings.Contains(res.Err.Error(), fc.Message):
		res.Problem = fmt.Sprintf("error %q does not mention %q", res.Err, fc.Message)
	case fc.Error != "" && fc.Path != "" && mismatchPath(res.Err) != fc.Path:
		res.Problem = fmt.Sprintf("mismatch at %s, want %s", mismatchPath(res.Err), fc.Path)
	case fc.Error == "" && strings.Join(res.Got, "\n") != strings.Join(fc.Expect, "\n"):
		res.Problem = fmt.Sprintf("got %q, want %q", res.Got, fc.Expect)
	default:
		res.Passed = true
	}
	return res
}

func (r *FixtureRunner) parseCase(fc *FixtureCase) ([]string, error) {
	if r.loader == nil {
		return nil, fmt.Errorf("fixtures: source case %s needs a loader", fc.ID())
	}
	mod, err := r.loader.ParseSource([]byte(fc.Source))
	if err != nil {
		return nil, err
	}
	got := make([]string, len(mod.Declarations))
	for i, decl := range mod.Declarations {
		got[i] = decl.String()
	}
	return got, nil
}

func buildRaw(fc *FixtureCase) ([]string, error) {
	raw, err := DecodeRaw(fc.Raw)
	if err != nil {
		return nil, err
	}
	node, err := builders[fc.Build](ast.ZeroSpan(), raw)
	if err != nil {
		return nil, err
	}
	return []string{node.String()}, nil
}

func mismatchPath(err error) string {
	var mismatch *schema.MismatchError
	if !errors.As(err, &mismatch) {
		return ""
	}
	return mismatch.Path.String()
}
