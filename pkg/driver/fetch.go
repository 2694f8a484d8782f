package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Checkout is a fixture repository checked out at a fixed commit.
type Checkout struct {
	Dir     string
	Commit  string
	Version string
}

// SuiteDir returns the suite directory inside the checkout.
func (c *Checkout) SuiteDir(source *FixtureSource) string {
	if source == nil || source.Dir == "" {
		return c.Dir
	}
	return filepath.Join(c.Dir, filepath.FromSlash(source.Dir))
}

// GitFetcher clones git-hosted fixture suites into a cache directory.
// Checkouts are keyed by suite name and pinned version and never updated in
// place.
type GitFetcher struct {
	cacheDir string
	logger   *zap.Logger
}

// NewGitFetcher returns nil when cacheDir is empty.
func NewGitFetcher(cacheDir string, logger *zap.Logger) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitFetcher{cacheDir: cacheDir, logger: logger.Named("git")}
}

// Fetch makes sure the suite's repository is checked out at the requested
// revision and returns the checkout.
func (g *GitFetcher) Fetch(source *FixtureSource) (*Checkout, error) {
	if g == nil {
		return nil, errors.New("fetch: git fetcher unavailable")
	}
	url := strings.TrimSpace(source.Git)
	if url == "" {
		return nil, fmt.Errorf("fetch: suite %q: git URL required", source.Name)
	}

	baseDir := filepath.Join(g.cacheDir, "fixtures", sanitizePathSegment(source.Name))
	version, commit, err := g.ensureCheckout(baseDir, url, source)
	if err != nil {
		return nil, fmt.Errorf("fetch: suite %q: %w", source.Name, err)
	}
	return &Checkout{
		Dir:     filepath.Join(baseDir, sanitizePathSegment(version)),
		Commit:  commit,
		Version: version,
	}, nil
}

func (g *GitFetcher) ensureCheckout(baseDir, url string, source *FixtureSource) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitRevision(source)
	if rev := source.Rev; rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			repo, err := git.PlainOpen(existing)
			if err != nil {
				return "", "", fmt.Errorf("open cached checkout %s: %w", existing, err)
			}
			hash, err := repo.ResolveRevision(revision)
			if err != nil {
				return "", "", fmt.Errorf("resolve revision %s in %s: %w", revision, existing, err)
			}
			g.logger.Debug("reusing checkout", zap.String("dir", existing), zap.String("commit", hash.String()))
			return rev, hash.String(), nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	g.logger.Debug("cloning", zap.String("url", url), zap.String("revision", string(revision)))
	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	if source.Rev != "" {
		version = source.Rev
	}
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitRevision(source *FixtureSource) (plumbing.Revision, string) {
	switch {
	case source.Rev != "":
		return plumbing.Revision(source.Rev), source.Rev
	case source.Tag != "":
		return plumbing.Revision("refs/tags/" + source.Tag), source.Tag
	case source.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + source.Branch), source.Branch
	default:
		return plumbing.Revision(plumbing.HEAD), ""
	}
}

func gitPinnedVersion(descriptor, commit string) string {
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}
