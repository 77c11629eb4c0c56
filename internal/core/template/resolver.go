package template

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sunrise-cli/sunrise/internal/errors"
	"github.com/sunrise-cli/sunrise/internal/logging"
)

// DefaultFetchTimeout bounds a remote fetch when the caller sets none.
const DefaultFetchTimeout = 60 * time.Second

// overridesRoot holds per-agent files: agents/<id>/commands/plan.md replaces
// commands/plan.md for agent <id> only.
const overridesRoot = "agents"

// Resolver turns a Source into a Bundle.
type Resolver struct {
	Fetcher Fetcher       // used in remote mode
	Timeout time.Duration // remote fetch timeout; DefaultFetchTimeout when zero
}

// NewResolver creates a Resolver fetching remote bundles with f.
func NewResolver(f Fetcher, timeout time.Duration) *Resolver {
	return &Resolver{Fetcher: f, Timeout: timeout}
}

// Resolve opens the bundle for agentID. The caller must Close the bundle.
func (r *Resolver) Resolve(ctx context.Context, agentID string, src Source) (*Bundle, error) {
	switch src.Mode {
	case ModeLocal:
		return r.resolveLocal(agentID, src)
	case ModeRemote:
		return r.resolveRemote(ctx, agentID, src)
	default:
		return nil, errors.SourceUnavailable(src.String(), nil)
	}
}

func (r *Resolver) resolveLocal(agentID string, src Source) (*Bundle, error) {
	if src.Location == "" {
		return nil, errors.SourceUnavailable("local", errEmptyLocation)
	}
	abs, err := filepath.Abs(src.Location)
	if err != nil {
		return nil, errors.SourceUnavailable(src.Location, err)
	}
	if err := requireDir(abs); err != nil {
		return nil, errors.SourceUnavailable(src.Location, err)
	}
	return OpenFS(os.DirFS(abs), agentID, abs)
}

func (r *Resolver) resolveRemote(ctx context.Context, agentID string, src Source) (*Bundle, error) {
	if r.Fetcher == nil {
		return nil, errors.SourceUnavailable(src.Location, errNoFetcher)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	dir, cleanup, err := r.Fetcher.Fetch(fetchCtx, src.Location)
	if err != nil {
		if errors.Is(err, errors.ErrSourceUnavailable) {
			return nil, err
		}
		return nil, errors.SourceUnavailable(src.Location, err)
	}
	logging.Debug("fetched bundle", "ref", src.Location, "dir", dir, "elapsed", time.Since(start))

	if err := requireDir(dir); err != nil {
		cleanup()
		return nil, errors.SourceUnavailable(src.Location, err)
	}

	b, err := OpenFS(os.DirFS(dir), agentID, src.Location)
	if err != nil {
		cleanup()
		return nil, err
	}
	b.cleanup = cleanup
	return b, nil
}

func requireDir(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errNotDirectory
	}
	return nil
}

// Bundle is an opened template bundle for one agent.
type Bundle struct {
	Manifest *Manifest // nil when the bundle has no sunrise.yaml

	fsys     fs.FS
	agentID  string
	location string
	cleanup  func()
}

// OpenFS opens a bundle rooted at fsys. location is used in messages only.
func OpenFS(fsys fs.FS, agentID, location string) (*Bundle, error) {
	b := &Bundle{fsys: fsys, agentID: agentID, location: location}

	data, err := fs.ReadFile(fsys, manifestName)
	switch {
	case err == nil:
		m, err := parseManifest(data)
		if err != nil {
			return nil, errors.InvalidTemplateFile(manifestName, err)
		}
		b.Manifest = m
	case !errors.Is(err, fs.ErrNotExist):
		return nil, errors.SourceUnavailable(location, err)
	}
	return b, nil
}

// Location returns where the bundle was read from.
func (b *Bundle) Location() string { return b.location }

// AgentID returns the agent the bundle was resolved for.
func (b *Bundle) AgentID() string { return b.agentID }

// Close releases temporary files of a fetched bundle.
func (b *Bundle) Close() error {
	if b.cleanup != nil {
		b.cleanup()
		b.cleanup = nil
	}
	return nil
}

// entry is a classified bundle path whose content has not been read yet.
type entry struct {
	source   string // path in the bundle fs
	path     string // canonical namespace path
	category Category
	override bool
}

// Files yields the bundle's files sorted by relative path. Content is read
// as each file is yielded. Iteration can be repeated; every pass re-reads
// the bundle. The first error ends the sequence.
func (b *Bundle) Files() iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		entries, err := b.scan()
		if err != nil {
			yield(File{}, err)
			return
		}
		for _, e := range entries {
			f, err := b.load(e)
			if !yield(f, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains Files into a slice.
func (b *Bundle) Collect() ([]File, error) {
	var files []File
	for f, err := range b.Files() {
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// scan walks the bundle, classifies every installable path and applies
// agent overrides.
func (b *Bundle) scan() ([]entry, error) {
	byPath := make(map[string]entry)

	err := fs.WalkDir(b.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.SourceUnavailable(b.location, err)
		}
		if p == "." {
			return nil
		}
		if ignored(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, override := p, false
		if first, rest, _ := strings.Cut(p, "/"); first == overridesRoot {
			agent, inner, _ := strings.Cut(rest, "/")
			switch {
			case rest == "":
				return nil
			case agent != b.agentID:
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			case inner == "":
				return nil
			}
			rel, override = inner, true
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.Contains(rel, "/") && ignoredTopLevel[rel] && !override {
			return nil
		}

		cat, err := Classify(rel)
		if err != nil {
			return err
		}
		e := entry{source: p, path: canonicalPath(rel, cat), category: cat, override: override}

		prev, dup := byPath[e.path]
		switch {
		case !dup, e.override && !prev.override:
			byPath[e.path] = e
		case prev.override && !e.override:
			// keep the agent override
		default:
			return errors.DuplicateDestination(e.path, prev.source, e.source)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(byPath))
	for _, e := range byPath {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	return entries, nil
}

func (b *Bundle) load(e entry) (File, error) {
	content, err := fs.ReadFile(b.fsys, e.source)
	if err != nil {
		return File{}, errors.SourceUnavailable(b.location, err)
	}
	info, err := fs.Stat(b.fsys, e.source)
	if err != nil {
		return File{}, errors.SourceUnavailable(b.location, err)
	}

	if e.category == CategorySkill && isSkillManifest(e.path) {
		if _, err := ParseSkillMeta(content); err != nil {
			return File{}, errors.InvalidTemplateFile(e.source, err)
		}
	}

	mode := info.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	return File{
		RelativePath: e.path,
		Category:     e.category,
		Content:      content,
		Mode:         mode,
	}, nil
}

// isSkillManifest reports whether p is skills/<name>/SKILL.md.
func isSkillManifest(p string) bool {
	parts := strings.Split(p, "/")
	return len(parts) == 3 && path.Base(p) == skillFileName
}
