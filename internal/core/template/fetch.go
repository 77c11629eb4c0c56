package template

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sunrise-cli/sunrise/internal/logging"
)

// Fetcher materializes a remote reference as a local directory. The cleanup
// function removes anything the fetch created and is safe to call once.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (dir string, cleanup func(), err error)
}

// GitFetcher fetches bundles with a shallow git clone.
type GitFetcher struct {
	// CloneURLOverrides redirects "owner/repo" or "host/owner/repo" to
	// another clone URL (mirrors, private forks).
	CloneURLOverrides map[string]string

	// git binary, "git" when empty.
	Git string
}

// Fetch clones ref into a temporary directory. The returned directory is the
// bundle root, which is the reference's subpath when one is given.
func (g *GitFetcher) Fetch(ctx context.Context, input string) (string, func(), error) {
	ref, err := ParseReference(input)
	if err != nil {
		return "", nil, err
	}
	ref.ApplyCloneURLOverride(g.CloneURLOverrides)

	tmpDir, err := os.MkdirTemp("", "sunrise-bundle-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	git := g.Git
	if git == "" {
		git = "git"
	}

	args := []string{"clone", "--depth", "1"}
	if ref.Ref != "" {
		args = append(args, "--branch", ref.Ref)
	}
	args = append(args, ref.CloneURL, tmpDir)

	cmd := exec.CommandContext(ctx, git, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	logging.Debug("cloning bundle", "url", ref.CloneURL, "ref", ref.Ref)
	output, err := cmd.CombinedOutput()
	if err != nil {
		cleanup()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, fmt.Errorf("git clone %s: %w", ref.CloneURL, ctxErr)
		}
		return "", nil, fmt.Errorf("git clone %s: %s", ref.CloneURL, firstLine(string(output), err))
	}

	dir := tmpDir
	if ref.SubPath != "" {
		sub := filepath.FromSlash(ref.SubPath)
		if !filepath.IsLocal(sub) {
			cleanup()
			return "", nil, fmt.Errorf("subpath %q escapes the repository", ref.SubPath)
		}
		dir = filepath.Join(tmpDir, sub)
	}
	return dir, cleanup, nil
}

// firstLine returns the first non-empty line of git output, falling back to
// the process error.
func firstLine(output string, err error) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return err.Error()
}
