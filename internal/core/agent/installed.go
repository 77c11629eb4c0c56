package agent

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sunrise-cli/sunrise/internal/core/template"
)

// InstalledFiles reverse-maps the category directories of p in projectDir
// back into template files. A file that does not classify under the
// category of the directory it sits in is not one of ours and is left out,
// which keeps shared directories (commands and skills in one folder) apart.
//
// Applying a bundle to an empty project and reading it back with
// InstalledFiles yields the bundle's file set.
func InstalledFiles(p Profile, projectDir string) ([]template.File, error) {
	seen := make(map[string]bool)
	var files []template.File

	for _, c := range template.Categories() {
		dir := filepath.Join(projectDir, filepath.FromSlash(p.Dir(c)))
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(dir, func(fp string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if fp != dir && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(dir, fp)
			if err != nil {
				return err
			}
			candidate := c.Root() + "/" + filepath.ToSlash(rel)
			if cat, err := template.Classify(candidate); err != nil || cat != c {
				return nil
			}
			if seen[candidate] {
				return nil
			}

			content, err := os.ReadFile(fp)
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			seen[candidate] = true
			files = append(files, template.File{
				RelativePath: candidate,
				Category:     c,
				Content:      content,
				Mode:         info.Mode().Perm(),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}
