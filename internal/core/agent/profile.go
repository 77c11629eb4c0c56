// Package agent holds the folder conventions of the supported AI coding
// agents and maps template files onto them.
//
// A Profile says where each template category lives inside a project for one
// agent. Profiles are loaded once into an immutable Registry, from the
// embedded agents.yaml table plus any profiles from the user config, and
// passed explicitly to the code that needs them.
package agent

import (
	"path"
	"slices"
	"sort"

	"github.com/sunrise-cli/sunrise/internal/core/template"
)

// Profile describes one agent's project layout. Directories are
// slash-separated and relative to the project root.
type Profile struct {
	ID          string   `yaml:"id" json:"id"`
	DisplayName string   `yaml:"name" json:"name,omitempty"`
	CommandDir  string   `yaml:"commands" json:"commands,omitempty"`
	SkillDir    string   `yaml:"skills" json:"skills,omitempty"`
	ScriptDir   string   `yaml:"scripts" json:"scripts,omitempty"`
	MemoryDir   string   `yaml:"memory" json:"memory,omitempty"`
	ContextFile string   `yaml:"contextFile" json:"contextFile,omitempty"` // agent memory file, e.g. CLAUDE.md
	DetectPaths []string `yaml:"detect" json:"detect,omitempty"`           // extra presence signals besides CommandDir
	Aliases     []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Name returns the display name, falling back to the ID.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

// Dir returns the project-relative directory for a category. It is empty
// only for unknown categories on a validated profile.
func (p Profile) Dir(c template.Category) string {
	switch c {
	case template.CategoryCommand:
		return p.CommandDir
	case template.CategorySkill:
		return p.SkillDir
	case template.CategoryScript:
		return p.ScriptDir
	case template.CategoryMemoryDoc:
		return p.MemoryDir
	}
	return ""
}

// Roots returns the tool-owned roots of the profile: its distinct category
// directories, sorted.
func (p Profile) Roots() []string {
	var roots []string
	for _, c := range template.Categories() {
		if d := p.Dir(c); d != "" {
			roots = append(roots, path.Clean(d))
		}
	}
	sort.Strings(roots)
	return slices.Compact(roots)
}

// merge fills empty fields of p from base.
func (p Profile) merge(base Profile) Profile {
	if p.DisplayName == "" {
		p.DisplayName = base.DisplayName
	}
	if p.CommandDir == "" {
		p.CommandDir = base.CommandDir
	}
	if p.SkillDir == "" {
		p.SkillDir = base.SkillDir
	}
	if p.ScriptDir == "" {
		p.ScriptDir = base.ScriptDir
	}
	if p.MemoryDir == "" {
		p.MemoryDir = base.MemoryDir
	}
	if p.ContextFile == "" {
		p.ContextFile = base.ContextFile
	}
	if p.DetectPaths == nil {
		p.DetectPaths = base.DetectPaths
	}
	if p.Aliases == nil {
		p.Aliases = base.Aliases
	}
	return p
}

func (p Profile) clone() Profile {
	p.DetectPaths = slices.Clone(p.DetectPaths)
	p.Aliases = slices.Clone(p.Aliases)
	return p
}
