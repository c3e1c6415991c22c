package git

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bytemain/apply-versions/internal/testutil"
)

func TestIsRepo(t *testing.T) {
	if !IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo := testutil.CreateRepo(t)
	if !NewClient(repo).IsRepo() {
		t.Error("repository not detected")
	}
	if NewClient(t.TempDir()).IsRepo() {
		t.Error("plain directory reported as repository")
	}
}

func TestStageAndCommit(t *testing.T) {
	if !IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo := testutil.CreateRepo(t)
	primary := testutil.WriteFile(t, repo, "pkg/file.txt", "a\n")
	extra := testutil.WriteFile(t, repo, "pkg/extra.txt", "b\n")
	missing := filepath.Join(repo, "pkg", "gone.txt")

	c := NewClient(repo)
	sha, err := c.StageAndCommit(primary, []string{extra, missing}, "release: pkg v1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if sha == "" {
		t.Error("empty commit SHA")
	}

	dirty, err := c.IsDirty()
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("working tree dirty after commit")
	}

	head, err := c.HeadCommit()
	if err != nil {
		t.Fatal(err)
	}
	if head != sha {
		t.Errorf("HeadCommit = %q, StageAndCommit returned %q", head, sha)
	}
}

func TestCreateTag(t *testing.T) {
	if !IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo := testutil.CreateRepo(t)
	c := NewClient(repo)

	if err := c.CreateTag("v1.0.0"); err != nil {
		t.Fatal(err)
	}
	exists, err := c.TagExists("v1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("tag not found after creation")
	}

	err = c.CreateTag("v1.0.0")
	if !errors.Is(err, ErrTagExists) {
		t.Errorf("duplicate tag: got %v, want ErrTagExists", err)
	}

	exists, err = c.TagExists("v2.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("absent tag reported as existing")
	}
}

func TestLatestTag(t *testing.T) {
	if !IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo := testutil.CreateRepo(t)
	c := NewClient(repo)

	v, err := c.LatestTag("")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("no tags: got %q", v)
	}

	for _, tag := range []string{"v0.9.0", "v0.10.0", "v0.2.0", "lib/v1.4.0", "lib/v1.12.0", "not-a-version"} {
		testutil.Tag(t, repo, tag)
	}

	v, err = c.LatestTag("")
	if err != nil {
		t.Fatal(err)
	}
	if v != "0.10.0" {
		t.Errorf("root prefix: got %q, want 0.10.0 (semver, not lexical)", v)
	}

	v, err = c.LatestTag("lib/")
	if err != nil {
		t.Fatal(err)
	}
	if v != "1.12.0" {
		t.Errorf("lib/ prefix: got %q, want 1.12.0", v)
	}
}

func TestIsDirty(t *testing.T) {
	if !IsGitInstalled() {
		t.Skip("git not installed")
	}
	repo := testutil.CreateRepo(t)
	c := NewClient(repo)

	dirty, err := c.IsDirty()
	if err != nil {
		t.Fatal(err)
	}
	if dirty {
		t.Error("fresh repository reported dirty")
	}

	testutil.WriteFile(t, repo, "new.txt", "x\n")
	dirty, err = c.IsDirty()
	if err != nil {
		t.Fatal(err)
	}
	if !dirty {
		t.Error("untracked file not reported")
	}
}
