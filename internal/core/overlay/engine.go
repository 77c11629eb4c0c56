package overlay

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/backup"
	"github.com/sunrise-cli/sunrise/internal/errors"
	"github.com/sunrise-cli/sunrise/internal/logging"
)

// Snapshotter takes a backup of a project-relative root.
type Snapshotter interface {
	Snapshot(root string) (backup.Record, error)
}

// Summary reports what Apply did.
type Summary struct {
	Created     int
	Overwritten int
	Skipped     int
	BackedUp    []backup.Record
}

// PartialApplyError is returned when a write fails after mutation began.
// Files written before the failure stay in place.
type PartialApplyError struct {
	Completed []PlannedAction
	Failed    PlannedAction
	BackedUp  []backup.Record
	err       *errors.SunriseError
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("%v (%d of the plan's writes completed)", e.err, len(e.Completed))
}

func (e *PartialApplyError) Unwrap() error { return e.err }

// Engine executes plans against one project directory.
type Engine struct {
	ProjectDir string
	Protected  *ProtectedPathSet // re-checked before any write; nil skips the check
	Backups    Snapshotter
}

// NewEngine creates an Engine writing into projectDir and snapshotting
// with a backup.Manager for the same directory.
func NewEngine(projectDir string, protected *ProtectedPathSet) *Engine {
	backups := backup.NewManager(projectDir)
	if protected != nil {
		// Protected content inside a root stays out of its snapshot too.
		backups.Skip = protected.Excludes
	}
	return &Engine{
		ProjectDir: projectDir,
		Protected:  protected,
		Backups:    backups,
	}
}

// Apply executes plan. Every root in plan.RootsToBackup is snapshotted
// before the first write; a failed snapshot aborts the run with the
// earlier snapshots left in place. A failed write aborts with a
// *PartialApplyError. There is no rollback.
func (e *Engine) Apply(plan *Plan) (*Summary, error) {
	if plan.Confirmation != nil {
		return nil, errors.ConfirmationRequired(
			fmt.Sprintf("plan overwrites %d file(s) in a non-empty directory and needs confirmation",
				plan.Confirmation.Conflicts))
	}
	if err := e.check(plan); err != nil {
		return nil, err
	}

	summary := &Summary{}
	roots := plan.RootsToBackup()
	if len(roots) > 0 && e.Backups == nil {
		return nil, errors.BackupFailed(roots[0], fmt.Errorf("no backup manager configured"))
	}
	for _, root := range roots {
		rec, err := e.Backups.Snapshot(root)
		if err != nil {
			return summary, err
		}
		summary.BackedUp = append(summary.BackedUp, rec)
	}

	var completed []PlannedAction
	for _, a := range plan.Actions {
		switch a.Action {
		case Skip:
			summary.Skipped++
			completed = append(completed, a)
			continue
		case Create, Overwrite:
		default:
			continue
		}

		if err := e.write(a); err != nil {
			return summary, &PartialApplyError{
				Completed: completed,
				Failed:    a,
				BackedUp:  summary.BackedUp,
				err:       errors.PartialApply(a.Destination, err),
			}
		}
		logging.Debug("wrote file", "action", a.Action.String(), "path", a.Destination)

		if a.Action == Create {
			summary.Created++
		} else {
			summary.Overwritten++
		}
		completed = append(completed, a)
	}
	return summary, nil
}

// check refuses plans that touch excluded paths or reuse a destination.
func (e *Engine) check(plan *Plan) error {
	seen := make(map[string]string, len(plan.Actions))
	for _, a := range plan.Actions {
		if e.Protected != nil && e.Protected.Excludes(a.Destination) {
			return errors.ProtectedPath(a.Destination)
		}
		if first, dup := seen[a.Destination]; dup {
			return errors.DuplicateDestination(a.Destination, first, a.Source.RelativePath)
		}
		seen[a.Destination] = a.Source.RelativePath
		if a.Action == Create || a.Action == Overwrite {
			if _, err := e.parentDir(a.Destination); err != nil {
				return err
			}
		}
	}
	return nil
}

// parentDir resolves the directory that receives dest. Links in the
// parent are followed inside the project; a parent that resolves into an
// excluded path is refused.
func (e *Engine) parentDir(dest string) (string, error) {
	dir, err := agent.ProjectPath(e.ProjectDir, path.Dir(dest))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(e.ProjectDir, dir)
	if err != nil {
		return "", err
	}
	resolved := path.Join(filepath.ToSlash(rel), path.Base(dest))
	if resolved != dest && e.Protected != nil && e.Protected.Excludes(resolved) {
		return "", errors.ProtectedPath(fmt.Sprintf("%s (resolves to %s)", dest, resolved))
	}
	return dir, nil
}

// write places the content at the destination through a temp file in the
// same directory and a rename, so readers never see a half-written file.
// The rename lands on the final name itself, so a symlink there is
// replaced rather than written through.
func (e *Engine) write(a PlannedAction) error {
	dir, err := e.parentDir(a.Destination)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	target := filepath.Join(dir, path.Base(a.Destination))

	mode := a.Source.Mode.Perm()
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(a.Source.Content); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return err
	}
	return nil
}
