package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/backup"
	"github.com/sunrise-cli/sunrise/internal/core/overlay"
)

func samplePlan() *overlay.Plan {
	return &overlay.Plan{
		Options: overlay.Options{Upgrade: true},
		Actions: []overlay.PlannedAction{
			{Destination: ".claude/commands/plan.md", Action: overlay.Overwrite, Root: ".claude/commands"},
			{Destination: ".claude/commands/tasks.md", Action: overlay.Create, Root: ".claude/commands"},
			{Destination: ".sunrise/memory/rules.md", Action: overlay.Skip, Root: ".sunrise/memory"},
		},
	}
}

func TestRenderPlan(t *testing.T) {
	out := RenderPlan(samplePlan(), 80)
	for _, want := range []string{
		"PLAN",
		"OVERWRITE", ".claude/commands/plan.md",
		"CREATE", ".claude/commands/tasks.md",
		"SKIP", ".sunrise/memory/rules.md",
		"1 to create, 1 to overwrite, 1 unchanged",
		"backups before writing: .claude/commands",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPlan() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPlan_Empty(t *testing.T) {
	out := RenderPlan(&overlay.Plan{}, 0)
	if !strings.Contains(out, "nothing to install") {
		t.Errorf("RenderPlan(empty) = %q", out)
	}
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(samplePlan(), []string{".claude/commands/mine.md"}, 80)
	for _, want := range []string{
		"STATUS",
		"MODIFIED", ".claude/commands/plan.md",
		"MISSING", ".claude/commands/tasks.md",
		"EXTRA", ".claude/commands/mine.md",
		"1 up to date, 1 modified, 1 missing, 1 not from the bundle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderStatus() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ".sunrise/memory/rules.md") {
		t.Errorf("RenderStatus() lists an unchanged file:\n%s", out)
	}
}

func TestTruncatePath(t *testing.T) {
	long := ".github/skills/very-long-skill-name/references/deeply/nested/file.md"
	got := truncatePath(long, 30)
	if w := ansi.StringWidth(got); w != 30 {
		t.Errorf("width = %d, want 30 (%q)", w, got)
	}
	if !strings.HasSuffix(got, "nested/file.md") {
		t.Errorf("truncatePath() = %q, should keep the file name", got)
	}
	if short := truncatePath("a/b.md", 30); short != "a/b.md" {
		t.Errorf("short path changed: %q", short)
	}
}

func TestRenderSummary(t *testing.T) {
	s := &overlay.Summary{
		Created:     4,
		Overwritten: 1,
		Skipped:     2,
		BackedUp: []backup.Record{{
			OriginalRoot: ".claude/commands",
			BackupPath:   ".claude/commands.backup.20260314_092653",
			Timestamp:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local),
		}},
	}
	out := RenderSummary(s)
	for _, want := range []string{"created", "4", "overwritten", "1", "unchanged", "2",
		".claude/commands.backup.20260314_092653", "2026-03-14 09:26:53"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSummary() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBackups_None(t *testing.T) {
	if out := RenderBackups(nil); !strings.Contains(out, "no backups found") {
		t.Errorf("RenderBackups(nil) = %q", out)
	}
}

func TestRenderPartialFailure(t *testing.T) {
	e := &overlay.PartialApplyError{
		Completed: []overlay.PlannedAction{{Destination: ".claude/commands/a.md", Action: overlay.Create}},
		Failed:    overlay.PlannedAction{Destination: ".claude/skills/x/SKILL.md", Action: overlay.Create},
		BackedUp:  []backup.Record{{BackupPath: ".claude/commands.backup.20260101_000000"}},
	}
	out := RenderPartialFailure(e)
	for _, want := range []string{"stopped at .claude/skills/x/SKILL.md", "1 action(s) completed",
		".claude/commands/a.md", "restore from:", ".claude/commands.backup.20260101_000000"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPartialFailure() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAgents(t *testing.T) {
	profiles := []agent.Profile{
		{ID: "claude", DisplayName: "Claude Code", CommandDir: ".claude/commands", SkillDir: ".claude/skills"},
		{ID: "q", CommandDir: ".amazonq/prompts", SkillDir: ".amazonq/cli-agents"},
	}
	out := RenderAgents(profiles, map[string]bool{"claude": true})
	for _, want := range []string{"ID", "AGENT", "claude", "Claude Code", ".claude/commands", "●", ".amazonq/prompts"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderAgents() missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "●") != 1 {
		t.Errorf("only detected agents should be marked:\n%s", out)
	}
}

func TestConfirmationText(t *testing.T) {
	q, d := ConfirmationText("my-app", &overlay.Confirmation{Conflicts: 2, ExistingEntries: 5})
	if !strings.Contains(q, "my-app is not empty") {
		t.Errorf("question = %q", q)
	}
	if !strings.Contains(d, "5 existing entries") || !strings.Contains(d, "2 file(s)") {
		t.Errorf("detail = %q", d)
	}
}
