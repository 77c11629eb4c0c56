package template

import (
	"io/fs"
	"path"
	"strings"
)

// File is one file to install. Files are created by a Bundle and never
// modified afterwards.
type File struct {
	RelativePath string      // slash-separated path in the bundle namespace, e.g. "commands/plan.md"
	Category     Category
	Content      []byte
	Mode         fs.FileMode // permission bits; scripts keep their executable bit
}

// CategoryPath returns the path below the category root folder:
// "skills/review/SKILL.md" becomes "review/SKILL.md".
func (f File) CategoryPath() string {
	_, rest, ok := strings.Cut(f.RelativePath, "/")
	if !ok {
		return f.RelativePath
	}
	return rest
}

// Name returns the base name of the file.
func (f File) Name() string {
	return path.Base(f.RelativePath)
}
