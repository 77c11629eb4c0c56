package template

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sunrise-cli/sunrise/internal/errors"
)

// Mode selects where a bundle comes from.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Source identifies a bundle: a directory path in local mode, a repository
// reference in remote mode.
type Source struct {
	Mode     Mode
	Location string
}

// LocalSource returns a Source reading the given directory.
func LocalSource(dir string) Source { return Source{Mode: ModeLocal, Location: dir} }

// RemoteSource returns a Source fetching the given repository reference.
func RemoteSource(ref string) Source { return Source{Mode: ModeRemote, Location: ref} }

func (s Source) String() string { return s.Mode.String() + ":" + s.Location }

// Reference is a parsed remote bundle reference.
type Reference struct {
	Host     string // e.g. "github.com"
	Owner    string
	Repo     string
	CloneURL string
	Ref      string // branch or tag, empty for the default branch
	SubPath  string // bundle root inside the repository
}

// ownerRepoPattern matches "owner/repo" format (2 segments, no protocol).
var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// ownerRepoPathPattern matches "owner/repo/path/to/bundle" format (3+ segments).
var ownerRepoPathPattern = regexp.MustCompile(`^([a-zA-Z0-9_.-]+)/([a-zA-Z0-9_.-]+)/(.+)$`)

// ParseReference parses a remote bundle reference.
//
// Supported formats:
//   - "owner/repo"                        → GitHub repo, default branch
//   - "owner/repo@v1.2.0"                 → GitHub repo at a tag or branch
//   - "owner/repo/path/to/bundle"         → GitHub repo with subpath
//   - "https://host/owner/repo"           → HTTPS git URL
//   - "https://host/owner/repo/tree/ref/sub" → HTTPS URL with ref and subpath
//   - "git@host:owner/repo.git"           → SSH git URL
//
// A subpath must stay inside the clone.
func ParseReference(input string) (*Reference, error) {
	ref, err := parseReference(input)
	if err != nil {
		return nil, err
	}
	if ref.SubPath != "" && !filepath.IsLocal(filepath.FromSlash(ref.SubPath)) {
		return nil, errors.SourceUnavailable(input, fmt.Errorf("subpath %q escapes the repository", ref.SubPath))
	}
	return ref, nil
}

func parseReference(input string) (*Reference, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty reference")
	}

	if strings.HasPrefix(input, "git@") {
		return parseSSHReference(input)
	}

	if strings.HasPrefix(input, "https://") || strings.HasPrefix(input, "http://") {
		return parseHTTPReference(input)
	}

	ref := ""
	if at := strings.LastIndex(input, "@"); at > 0 {
		input, ref = input[:at], input[at+1:]
		if ref == "" {
			return nil, fmt.Errorf("empty ref in reference %q", input+"@")
		}
	}

	if m := ownerRepoPathPattern.FindStringSubmatch(input); m != nil {
		return &Reference{
			Host:     "github.com",
			Owner:    m[1],
			Repo:     m[2],
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", m[1], m[2]),
			Ref:      ref,
			SubPath:  m[3],
		}, nil
	}

	if ownerRepoPattern.MatchString(input) {
		segments := strings.SplitN(input, "/", 2)
		return &Reference{
			Host:     "github.com",
			Owner:    segments[0],
			Repo:     segments[1],
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", segments[0], segments[1]),
			Ref:      ref,
		}, nil
	}

	return nil, fmt.Errorf("unrecognized reference format: %q", input)
}

func parseSSHReference(input string) (*Reference, error) {
	// git@github.com:owner/repo.git[@ref]
	ref := ""
	if at := strings.LastIndex(input, "@"); at > len("git@") {
		input, ref = input[:at], input[at+1:]
	}

	parts := strings.SplitN(input, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid SSH URL: %q", input)
	}

	result := &Reference{
		Host:     strings.TrimPrefix(parts[0], "git@"),
		CloneURL: input,
		Ref:      ref,
	}
	segments := strings.SplitN(strings.TrimSuffix(parts[1], ".git"), "/", 2)
	if len(segments) == 2 {
		result.Owner = segments[0]
		result.Repo = segments[1]
	}
	return result, nil
}

func parseHTTPReference(input string) (*Reference, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Parse path segments: /owner/repo[/tree/ref/subpath]
	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	result := &Reference{Host: u.Host}

	if len(pathParts) < 2 {
		result.CloneURL = input
		return result, nil
	}

	result.Owner = pathParts[0]
	result.Repo = strings.TrimSuffix(pathParts[1], ".git")
	result.CloneURL = fmt.Sprintf("%s://%s/%s/%s.git", u.Scheme, u.Host, result.Owner, result.Repo)

	if len(pathParts) >= 4 && pathParts[2] == "tree" {
		result.Ref = pathParts[3]
		if len(pathParts) > 4 {
			result.SubPath = strings.Join(pathParts[4:], "/")
		}
	}
	return result, nil
}

// ApplyCloneURLOverride replaces the clone URL when overrides has an entry
// for "host/owner/repo" or "owner/repo". The more specific key wins.
func (r *Reference) ApplyCloneURLOverride(overrides map[string]string) {
	if len(overrides) == 0 || r.Owner == "" || r.Repo == "" {
		return
	}
	if u, ok := overrides[r.Host+"/"+r.Owner+"/"+r.Repo]; ok {
		r.CloneURL = u
		return
	}
	if u, ok := overrides[r.Owner+"/"+r.Repo]; ok {
		r.CloneURL = u
	}
}
