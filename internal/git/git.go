package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrTagExists reports that tag creation failed because the tag is
// already present.
var ErrTagExists = errors.New("tag already exists")

// Client runs git commands against one repository working tree. The
// zero-value-unfriendly constructor keeps the repository directory
// explicit on every call site.
type Client struct {
	dir string
}

// NewClient creates a client for the repository rooted at dir.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

// Dir returns the repository directory the client operates on.
func (c *Client) Dir() string { return c.dir }

// IsRepo returns true if the client's directory is a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(c.dir + "/.git")
	if err != nil {
		return false
	}
	return info.IsDir()
}

// StageAndCommit stages the primary file plus any additional files and
// creates a single commit. Additional files missing from disk are
// tolerated and skipped; the primary file is not. Returns the short
// commit SHA.
func (c *Client) StageAndCommit(primary string, additional []string, message string) (string, error) {
	files := []string{primary}
	for _, f := range additional {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		files = append(files, f)
	}

	args := append([]string{"add", "--"}, files...)
	if err := c.runQuiet(args...); err != nil {
		return "", fmt.Errorf("staging: %w", err)
	}

	if err := c.ensureCommitIdentity(); err != nil {
		return "", fmt.Errorf("setting commit identity: %w", err)
	}
	if err := c.runQuiet("commit", "-m", message); err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return c.HeadCommit()
}

// HeadCommit returns the short SHA of HEAD.
func (c *Client) HeadCommit() (string, error) {
	out, err := c.outputQuiet("rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TagExists checks whether the given tag is present in the repository.
func (c *Client) TagExists(name string) (bool, error) {
	err := c.runQuiet("show-ref", "--verify", "--quiet", "refs/tags/"+name)
	if err != nil {
		if isExitError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateTag creates a lightweight tag at HEAD. Returns
// ErrTagExists when the tag is already present, leaving it untouched.
func (c *Client) CreateTag(name string) error {
	exists, err := c.TagExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", name, ErrTagExists)
	}
	if err := c.runQuiet("tag", name); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}
	return nil
}

// LatestTag returns the highest semver tag carrying the given prefix
// (e.g. "" matches v1.2.3, "lib/" matches lib/v1.2.3). Returns an empty
// string when no matching tag exists.
func (c *Client) LatestTag(prefix string) (string, error) {
	out, err := c.outputQuiet("tag", "--list", prefix+"v*")
	if err != nil {
		return "", err
	}
	var versions []*semver.Version
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		raw := strings.TrimPrefix(strings.TrimPrefix(line, prefix), "v")
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return "", nil
	}
	sort.Sort(semver.Collection(versions))
	return versions[len(versions)-1].String(), nil
}

// IsDirty returns true if the working tree has uncommitted changes.
func (c *Client) IsDirty() (bool, error) {
	out, err := c.outputQuiet("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// ensureCommitIdentity sets repo-local user.name/user.email if they are
// not configured, so commits never fail on a bare environment.
func (c *Client) ensureCommitIdentity() error {
	if _, err := c.outputQuiet("config", "user.name"); err != nil {
		if err2 := c.runQuiet("config", "user.name", "apply-versions"); err2 != nil {
			return err2
		}
	}
	if _, err := c.outputQuiet("config", "user.email"); err != nil {
		if err2 := c.runQuiet("config", "user.email", "apply-versions@localhost"); err2 != nil {
			return err2
		}
	}
	return nil
}

// IsGitInstalled returns true if git is available on the system PATH.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// runQuiet executes a git command without printing stdout. Stderr is
// captured and included in the error message on failure.
func (c *Client) runQuiet(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return nil
}

// outputQuiet executes a git command and returns its stdout without
// printing to the console.
func (c *Client) outputQuiet(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
