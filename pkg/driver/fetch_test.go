package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "tsdecl",
			Email: "tsdecl@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestGitFetcherChecksOutSuite(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "suites", "decl", "basic.yml"), `
cases:
  - name: remote case
    source: "let remote: boolean;"
    expect: ["remote: boolean"]
`)
	commit := initGitRepo(t, repoDir)

	cacheDir := t.TempDir()
	fetcher := NewGitFetcher(cacheDir, nil)
	source := &FixtureSource{Name: "upstream", Git: repoDir, Dir: "suites/decl"}

	checkout, err := fetcher.Fetch(source)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if checkout.Commit != commit || checkout.Version != commit {
		t.Fatalf("checkout = %+v, want commit %s", checkout, commit)
	}
	if _, err := os.Stat(filepath.Join(checkout.SuiteDir(source), "basic.yml")); err != nil {
		t.Fatalf("suite file missing from checkout: %v", err)
	}

	cfg := DefaultConfig(t.TempDir())
	runner := NewFixtureRunner(newTestLoader(t), fetcher, nil)
	dir, err := runner.ResolveSuite(cfg, source)
	if err != nil {
		t.Fatalf("ResolveSuite error: %v", err)
	}
	report, err := runner.RunSuite(source.Name, dir)
	if err != nil {
		t.Fatalf("RunSuite error: %v", err)
	}
	if len(report.Results) != 1 || report.Failed() != 0 {
		t.Fatalf("report = %+v", report.Results)
	}
}

func TestGitFetcherPinnedRevisionIsReused(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "cases.yml"), "cases: []")
	commit := initGitRepo(t, repoDir)

	fetcher := NewGitFetcher(t.TempDir(), nil)
	source := &FixtureSource{Name: "pinned suite", Git: repoDir, Rev: commit}
	first, err := fetcher.Fetch(source)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if first.Version != commit {
		t.Fatalf("Version = %s, want %s", first.Version, commit)
	}

	if err := os.RemoveAll(repoDir); err != nil {
		t.Fatalf("remove repo: %v", err)
	}
	second, err := fetcher.Fetch(source)
	if err != nil {
		t.Fatalf("second Fetch should reuse the checkout: %v", err)
	}
	if second.Dir != first.Dir {
		t.Fatalf("Dir = %s, want %s", second.Dir, first.Dir)
	}
	if second.Commit != commit {
		t.Fatalf("reused Commit = %s, want %s", second.Commit, commit)
	}
}

func TestGitFetcherShortRevisionReportsFullCommit(t *testing.T) {
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "cases.yml"), "cases: []")
	commit := initGitRepo(t, repoDir)
	short := commit[:7]

	fetcher := NewGitFetcher(t.TempDir(), nil)
	source := &FixtureSource{Name: "short", Git: repoDir, Rev: short}
	first, err := fetcher.Fetch(source)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if first.Version != short || first.Commit != commit {
		t.Fatalf("checkout = %+v, want version %s and commit %s", first, short, commit)
	}

	if err := os.RemoveAll(repoDir); err != nil {
		t.Fatalf("remove repo: %v", err)
	}
	second, err := fetcher.Fetch(source)
	if err != nil {
		t.Fatalf("second Fetch should reuse the checkout: %v", err)
	}
	if second.Dir != first.Dir || second.Commit != commit {
		t.Fatalf("reused checkout = %+v, want dir %s and commit %s", second, first.Dir, commit)
	}
}

func TestGitFetcherErrors(t *testing.T) {
	var nilFetcher *GitFetcher
	if _, err := nilFetcher.Fetch(&FixtureSource{Name: "x", Git: "y"}); err == nil {
		t.Fatalf("expected error from nil fetcher")
	}
	if NewGitFetcher("", nil) != nil {
		t.Fatalf("empty cache dir should disable fetching")
	}
	fetcher := NewGitFetcher(t.TempDir(), nil)
	if _, err := fetcher.Fetch(&FixtureSource{Name: "x"}); err == nil {
		t.Fatalf("expected error for missing URL")
	}
	if _, err := fetcher.Fetch(&FixtureSource{Name: "x", Git: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatalf("expected clone error")
	}

	runner := NewFixtureRunner(nil, nil, nil)
	if _, err := runner.ResolveSuite(DefaultConfig(t.TempDir()), &FixtureSource{Name: "g", Git: "x"}); err == nil {
		t.Fatalf("expected error resolving git suite without fetcher")
	}
}

func TestSanitizePathSegment(t *testing.T) {
	cases := map[string]string{
		"":             "head",
		"v1.2.0":       "v1.2.0",
		"main@abc":     "main_abc",
		"pinned suite": "pinned_suite",
	}
	for in, want := range cases {
		if got := sanitizePathSegment(in); got != want {
			t.Fatalf("sanitizePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
