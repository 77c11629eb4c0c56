package template

import (
	"path"
	"strings"

	"github.com/sunrise-cli/sunrise/internal/errors"
)

// ignoredTopLevel are bundle-root files that are not installed.
var ignoredTopLevel = map[string]bool{
	"README.md":    true,
	"LICENSE":      true,
	"CHANGELOG.md": true,
	manifestName:   true,
}

// ignored reports whether a bundle entry is skipped entirely. Hidden and
// underscore-prefixed entries are treated as bundle internals.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// Classify assigns a category to a slash-separated bundle path. The path
// must already be stripped of any agents/<id>/ override prefix.
func Classify(rel string) (Category, error) {
	root, rest, ok := strings.Cut(rel, "/")
	if !ok || rest == "" {
		return "", errors.UnclassifiedTemplateFile(rel)
	}
	cat, known := categoryRoots[root]
	if !known {
		return "", errors.UnclassifiedTemplateFile(rel)
	}

	switch cat {
	case CategoryCommand:
		// Commands are flat definition files.
		if strings.Contains(rest, "/") {
			return "", errors.UnclassifiedTemplateFile(rel)
		}
		switch path.Ext(rest) {
		case ".md", ".toml":
			return CategoryCommand, nil
		}
		return "", errors.UnclassifiedTemplateFile(rel)
	case CategorySkill:
		// Anything under a skill root belongs to that skill, but loose files
		// directly in skills/ are not skills.
		if !strings.Contains(rest, "/") {
			return "", errors.UnclassifiedTemplateFile(rel)
		}
		return CategorySkill, nil
	default:
		return cat, nil
	}
}

// canonicalPath rewrites an alias root (docs/) to the canonical one (memory/)
// so that both spell the same destination.
func canonicalPath(rel string, cat Category) string {
	_, rest, _ := strings.Cut(rel, "/")
	return cat.Root() + "/" + rest
}
