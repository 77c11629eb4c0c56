// Package template resolves a template bundle into the set of files sunrise
// installs into a project.
//
// A bundle is a directory tree laid out by category:
//
//	commands/   slash-command definitions      (Command)
//	skills/     one folder per skill            (Skill)
//	memory/     memory and guidance documents   (MemoryDoc, also docs/)
//	scripts/    helper scripts                  (Script)
//	agents/<id>/<category root>/...             per-agent overrides
//
// Bundles come from a local directory or from a git reference fetched into
// a temporary directory. Resolution never writes to the target project.
package template

import "fmt"

// Category is the destination class of a template file.
type Category string

const (
	CategoryCommand   Category = "command"
	CategorySkill     Category = "skill"
	CategoryMemoryDoc Category = "memory"
	CategoryScript    Category = "script"
)

// Categories returns every category in a stable order.
func Categories() []Category {
	return []Category{CategoryCommand, CategorySkill, CategoryMemoryDoc, CategoryScript}
}

// categoryRoots maps bundle root folders to categories.
var categoryRoots = map[string]Category{
	"commands": CategoryCommand,
	"skills":   CategorySkill,
	"memory":   CategoryMemoryDoc,
	"docs":     CategoryMemoryDoc,
	"scripts":  CategoryScript,
}

// ParseCategory converts a category name into a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Root returns the canonical bundle folder for the category.
func (c Category) Root() string {
	switch c {
	case CategoryCommand:
		return "commands"
	case CategorySkill:
		return "skills"
	case CategoryMemoryDoc:
		return "memory"
	case CategoryScript:
		return "scripts"
	}
	return ""
}
