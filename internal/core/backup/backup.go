// Package backup snapshots tool-owned roots before they are overwritten.
//
// A snapshot of <root> is a full copy placed next to it at
// <root>.backup.YYYYMMDD_HHMMSS, with a _<n> suffix when that name is
// already taken. Snapshots are never pruned; cleanup is left to the user.
package backup

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/sunrise-cli/sunrise/internal/errors"
	"github.com/sunrise-cli/sunrise/internal/logging"
)

// TimestampFormat is the layout of the timestamp in a backup name.
const TimestampFormat = "20060102_150405"

const suffix = ".backup."

// maxCollisions bounds the _<n> counter search.
const maxCollisions = 1000

var namePattern = regexp.MustCompile(`^\.backup\.(\d{8}_\d{6})(?:_(\d+))?$`)

// Record describes one snapshot. Paths are project-relative and
// slash-separated.
type Record struct {
	OriginalRoot string    `json:"originalRoot"`
	BackupPath   string    `json:"backupPath"`
	Timestamp    time.Time `json:"timestamp"`
}

// Manager creates and lists snapshots inside one project.
type Manager struct {
	ProjectDir string
	Now        func() time.Time // clock; time.Now when nil

	// Skip reports project-relative, slash-separated paths to leave out of
	// a snapshot. Nil copies everything.
	Skip func(rel string) bool
}

// NewManager creates a Manager for projectDir using the wall clock.
func NewManager(projectDir string) *Manager {
	return &Manager{ProjectDir: projectDir, Now: time.Now}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Snapshot copies the project-relative directory root to a new sibling
// backup directory. On any failure the partial copy is removed and a
// BackupFailed error is returned.
func (m *Manager) Snapshot(root string) (Record, error) {
	root = path.Clean(root)
	src, err := securejoin.SecureJoin(m.ProjectDir, filepath.FromSlash(root))
	if err != nil {
		return Record{}, errors.BackupFailed(root, err)
	}
	if src != filepath.Join(m.ProjectDir, filepath.FromSlash(root)) {
		// A linked root would be copied from wherever it points.
		return Record{}, errors.BackupFailed(root, fmt.Errorf("%s resolves through a symbolic link", root))
	}
	info, err := os.Lstat(src)
	if err != nil {
		return Record{}, errors.BackupFailed(root, err)
	}
	if !info.IsDir() {
		return Record{}, errors.BackupFailed(root, fmt.Errorf("%s is not a directory", root))
	}

	ts := m.now()
	name, dst, err := reserve(src, ts)
	if err != nil {
		return Record{}, errors.BackupFailed(root, err)
	}

	if err := copyTree(src, dst, root, m.Skip); err != nil {
		_ = makeWritable(dst)
		_ = os.RemoveAll(dst)
		return Record{}, errors.BackupFailed(root, err)
	}

	rec := Record{
		OriginalRoot: root,
		BackupPath:   path.Join(path.Dir(root), name),
		Timestamp:    ts,
	}
	logging.Debug("snapshot created", "root", rec.OriginalRoot, "backup", rec.BackupPath)
	return rec, nil
}

// reserve creates the empty backup directory next to src. Mkdir fails on an
// existing name, so two snapshots in the same second get distinct names.
func reserve(src string, ts time.Time) (string, string, error) {
	base := filepath.Base(src) + suffix + ts.Format(TimestampFormat)
	for n := 0; n < maxCollisions; n++ {
		name := base
		if n > 0 {
			name = base + "_" + strconv.Itoa(n)
		}
		dst := filepath.Join(filepath.Dir(src), name)
		err := os.Mkdir(dst, 0o700)
		if err == nil {
			return name, dst, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free backup name for %s", base)
}

// copyTree copies src, the project directory root, into the existing
// directory dst, keeping permission bits and symlinks. Directory modes are
// applied last so read-only directories can still be filled.
func copyTree(src, dst, root string, skip func(string) bool) error {
	type dirMode struct {
		path string
		mode os.FileMode
	}
	var dirs []dirMode

	err := filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if rel != "." && skip != nil && skip(path.Join(root, filepath.ToSlash(rel))) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case info.IsDir():
			if rel != "." {
				if err := os.Mkdir(target, 0o700); err != nil {
					return err
				}
			}
			dirs = append(dirs, dirMode{target, info.Mode().Perm()})
			return nil
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			return copyFile(p, target, info.Mode().Perm())
		default:
			// Sockets, devices and pipes have no place in a template root.
			return nil
		}
	})
	if err != nil {
		return err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Chmod(dirs[i].path, dirs[i].mode); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	// OpenFile is subject to the umask.
	return os.Chmod(dst, mode)
}

// makeWritable opens up a partial copy so it can be removed.
func makeWritable(dir string) error {
	return filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			_ = os.Chmod(p, 0o700)
		}
		return nil
	})
}

// List returns the existing snapshots of the given project-relative roots,
// oldest first.
func (m *Manager) List(roots []string) ([]Record, error) {
	var records []Record
	seen := make(map[string]bool)

	for _, root := range roots {
		root = path.Clean(root)
		if seen[root] {
			continue
		}
		seen[root] = true

		parent := path.Dir(root)
		dir, err := securejoin.SecureJoin(m.ProjectDir, filepath.FromSlash(parent))
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", parent, err)
		}

		base := path.Base(root)
		for _, e := range entries {
			rest, ok := strings.CutPrefix(e.Name(), base)
			if !ok || !e.IsDir() {
				continue
			}
			match := namePattern.FindStringSubmatch(rest)
			if match == nil {
				continue
			}
			ts, err := time.ParseInLocation(TimestampFormat, match[1], time.Local)
			if err != nil {
				continue
			}
			records = append(records, Record{
				OriginalRoot: root,
				BackupPath:   path.Join(parent, e.Name()),
				Timestamp:    ts,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return records[i].BackupPath < records[j].BackupPath
	})
	return records, nil
}
