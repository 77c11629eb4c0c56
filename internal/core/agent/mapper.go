package agent

import (
	stderrors "errors"
	"path"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/sunrise-cli/sunrise/internal/core/template"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

var errEscapesCategory = stderrors.New("path leaves its category directory")

// MapDestination returns the project-relative, slash-separated destination
// of f for profile p. Files with the same category and category path map to
// the same destination.
func MapDestination(p Profile, f template.File) (string, error) {
	dir := p.Dir(f.Category)
	if dir == "" {
		return "", errors.MissingAgentMapping(p.ID, string(f.Category))
	}

	rel := f.CategoryPath()
	if rel == "" || path.IsAbs(rel) || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", errors.InvalidTemplateFile(f.RelativePath, errEscapesCategory)
	}
	return path.Join(dir, rel), nil
}

// ProjectPath joins a project-relative destination onto projectDir. Symlinks
// inside the project are resolved within it, so a link can never redirect a
// write outside the project.
func ProjectPath(projectDir, rel string) (string, error) {
	return securejoin.SecureJoin(projectDir, filepath.FromSlash(rel))
}
