package overlay

import (
	"bytes"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"sort"
	"strings"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/template"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

// Action is what the engine does with one destination.
type Action int

const (
	Create Action = iota
	Overwrite
	Skip
)

func (a Action) String() string {
	switch a {
	case Create:
		return "CREATE"
	case Overwrite:
		return "OVERWRITE"
	case Skip:
		return "SKIP"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Destination is a template file paired with its project-relative path.
type Destination struct {
	Path string
	File template.File
}

// MapBundle maps every file of a bundle onto profile p.
func MapBundle(p agent.Profile, files iter.Seq2[template.File, error]) ([]Destination, error) {
	var dests []Destination
	for f, err := range files {
		if err != nil {
			return nil, err
		}
		dest, err := agent.MapDestination(p, f)
		if err != nil {
			return nil, err
		}
		dests = append(dests, Destination{Path: dest, File: f})
	}
	return dests, nil
}

// Options control how a plan treats existing content.
type Options struct {
	Force   bool // proceed without confirmation
	Upgrade bool // replace tool-owned roots, backing each up first
}

// PlannedAction is one step of a plan.
type PlannedAction struct {
	Destination string
	Action      Action
	Source      template.File
	Root        string // tool-owned root containing Destination
}

// Confirmation is set on a plan that changes a non-empty project without
// Force or Upgrade. The caller must obtain consent and plan again with Force.
type Confirmation struct {
	Conflicts       int // OVERWRITE actions
	ExistingEntries int // top-level entries already in the project
}

// Plan is the ordered result of Build.
type Plan struct {
	Actions      []PlannedAction // sorted by Destination
	Options      Options
	Confirmation *Confirmation
}

// Counts tallies actions by kind.
type Counts struct {
	Create    int
	Overwrite int
	Skip      int
}

// Counts returns per-action totals.
func (p *Plan) Counts() Counts {
	var c Counts
	for _, a := range p.Actions {
		switch a.Action {
		case Create:
			c.Create++
		case Overwrite:
			c.Overwrite++
		case Skip:
			c.Skip++
		}
	}
	return c
}

// Mutates reports whether applying the plan writes anything.
func (p *Plan) Mutates() bool {
	c := p.Counts()
	return c.Create+c.Overwrite > 0
}

// RootsToBackup returns the roots that must be snapshotted before apply:
// in upgrade mode, every root receiving at least one OVERWRITE.
func (p *Plan) RootsToBackup() []string {
	if !p.Options.Upgrade {
		return nil
	}
	seen := make(map[string]bool)
	var roots []string
	for _, a := range p.Actions {
		if a.Action == Overwrite && !seen[a.Root] {
			seen[a.Root] = true
			roots = append(roots, a.Root)
		}
	}
	sort.Strings(roots)
	return roots
}

// Build compares dests against the project tree and returns the plan.
// Excluded destinations are dropped without trace. Two files mapping to
// the same destination, or a destination that is a directory in the tree,
// fail the whole plan.
func Build(dests []Destination, tree fs.FS, protected *ProtectedPathSet, opts Options) (*Plan, error) {
	visible := make([]Destination, 0, len(dests))
	for _, d := range dests {
		if protected.Excludes(d.Path) || !fs.ValidPath(d.Path) {
			continue
		}
		visible = append(visible, d)
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Path < visible[j].Path })

	plan := &Plan{Options: opts, Actions: make([]PlannedAction, 0, len(visible))}
	links := &linkScanner{tree: tree, types: make(map[string]map[string]fs.FileMode)}
	for i, d := range visible {
		if i > 0 && visible[i-1].Path == d.Path {
			return nil, errors.DuplicateDestination(d.Path, visible[i-1].File.RelativePath, d.File.RelativePath)
		}

		if link, ok := links.symlinkOn(d.Path); ok {
			return nil, errors.DestinationConflict(d.Path, fmt.Sprintf("%s is a symbolic link", link))
		}
		action, err := classify(tree, d)
		if err != nil {
			return nil, err
		}
		root, _ := protected.Root(d.Path)
		plan.Actions = append(plan.Actions, PlannedAction{
			Destination: d.Path,
			Action:      action,
			Source:      d.File,
			Root:        root,
		})
	}

	if !opts.Force && !opts.Upgrade && plan.Mutates() {
		if n := countEntries(tree); n > 0 {
			plan.Confirmation = &Confirmation{
				Conflicts:       plan.Counts().Overwrite,
				ExistingEntries: n,
			}
		}
	}
	return plan, nil
}

// linkScanner finds symlinks along a destination path without following
// them. A link inside a tool-owned root could point anywhere, protected
// paths included, so it is never written through.
type linkScanner struct {
	tree  fs.FS
	types map[string]map[string]fs.FileMode // dir -> entry name -> type bits
}

// symlinkOn returns the first component of p that is a symlink.
func (l *linkScanner) symlinkOn(p string) (string, bool) {
	dir := "."
	for _, name := range strings.Split(p, "/") {
		entries, ok := l.types[dir]
		if !ok {
			entries = make(map[string]fs.FileMode)
			if list, err := fs.ReadDir(l.tree, dir); err == nil {
				for _, e := range list {
					entries[e.Name()] = e.Type()
				}
			}
			l.types[dir] = entries
		}

		next := path.Join(dir, name)
		t, exists := entries[name]
		if !exists {
			return "", false
		}
		if t&fs.ModeSymlink != 0 {
			return next, true
		}
		dir = next
	}
	return "", false
}

func classify(tree fs.FS, d Destination) (Action, error) {
	info, err := fs.Stat(tree, d.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Create, nil
	}
	if err != nil {
		return 0, errors.DestinationConflict(d.Path, err.Error())
	}
	if info.IsDir() {
		return 0, errors.DestinationConflict(d.Path, "a directory exists at this path")
	}

	existing, err := fs.ReadFile(tree, d.Path)
	if err != nil {
		return 0, errors.DestinationConflict(d.Path, err.Error())
	}
	if bytes.Equal(existing, d.File.Content) {
		return Skip, nil
	}
	return Overwrite, nil
}

func countEntries(tree fs.FS) int {
	entries, err := fs.ReadDir(tree, ".")
	if err != nil {
		return 0
	}
	return len(entries)
}
