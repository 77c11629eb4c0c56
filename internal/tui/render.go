package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/backup"
	"github.com/sunrise-cli/sunrise/internal/core/overlay"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100

func badge(a overlay.Action) string {
	switch a {
	case overlay.Create:
		return createStyle.Render(a.String())
	case overlay.Overwrite:
		return overwriteStyle.Render(a.String())
	default:
		return skipStyle.Render(a.String())
	}
}

// truncatePath shortens p to width cells, keeping the tail, which holds the
// file name.
func truncatePath(p string, width int) string {
	if width <= 1 || ansi.StringWidth(p) <= width {
		return p
	}
	return ansi.TruncateLeft(p, ansi.StringWidth(p)-width+1, "…")
}

// RenderPlan renders one line per action followed by the totals.
func RenderPlan(plan *overlay.Plan, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	b.WriteString(renderSectionHeader("PLAN") + "\n")

	if len(plan.Actions) == 0 {
		b.WriteString(mutedStyle.Render("  nothing to install") + "\n")
		return b.String()
	}

	pathWidth := width - badgeWidth - 2
	for _, a := range plan.Actions {
		b.WriteString("  " + badge(a.Action) + pathStyle.Render(truncatePath(a.Destination, pathWidth)) + "\n")
	}

	c := plan.Counts()
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("  %d to create, %d to overwrite, %d unchanged",
		c.Create, c.Overwrite, c.Skip)) + "\n")

	if roots := plan.RootsToBackup(); len(roots) > 0 {
		b.WriteString(mutedStyle.Render("  backups before writing: "+strings.Join(roots, ", ")) + "\n")
	}
	return b.String()
}

// ConfirmationText returns the question and detail for a plan that needs
// consent.
func ConfirmationText(dir string, c *overlay.Confirmation) (string, string) {
	question := fmt.Sprintf("%s is not empty. Merge the templates into it?", dir)
	detail := fmt.Sprintf("%d existing entries; %d file(s) would be overwritten. Files under protected paths are never touched.",
		c.ExistingEntries, c.Conflicts)
	return question, detail
}

// RenderSummary renders the result of an apply.
func RenderSummary(s *overlay.Summary) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("DONE") + "\n")
	b.WriteString(fmt.Sprintf("  %s %d  %s %d  %s %d\n",
		createStyle.UnsetWidth().Render("created"), s.Created,
		overwriteStyle.UnsetWidth().Render("overwritten"), s.Overwritten,
		skipStyle.UnsetWidth().Render("unchanged"), s.Skipped))
	if len(s.BackedUp) > 0 {
		b.WriteString("\n" + RenderBackups(s.BackedUp))
	}
	return b.String()
}

// RenderBackups lists snapshot records.
func RenderBackups(records []backup.Record) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("BACKUPS") + "\n")
	if len(records) == 0 {
		b.WriteString(mutedStyle.Render("  no backups found") + "\n")
		return b.String()
	}
	for _, r := range records {
		b.WriteString(fmt.Sprintf("  %s  %s %s\n",
			mutedStyle.Render(r.Timestamp.Format("2006-01-02 15:04:05")),
			pathStyle.Render(r.BackupPath),
			mutedStyle.Render("← "+r.OriginalRoot)))
	}
	return b.String()
}

// RenderPartialFailure describes an interrupted apply.
func RenderPartialFailure(e *overlay.PartialApplyError) string {
	var b strings.Builder
	b.WriteString(warningStyle.Render(fmt.Sprintf("  stopped at %s", e.Failed.Destination)) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d action(s) completed before the failure:", len(e.Completed))) + "\n")
	for _, a := range e.Completed {
		b.WriteString("    " + badge(a.Action) + pathStyle.Render(a.Destination) + "\n")
	}
	if len(e.BackedUp) > 0 {
		b.WriteString(mutedStyle.Render("  restore from:") + "\n")
		for _, r := range e.BackedUp {
			b.WriteString("    " + pathStyle.Render(r.BackupPath) + "\n")
		}
	}
	return b.String()
}

// RenderStatus renders how a project differs from a bundle. A plan built
// against the project reads as a status: CREATE is a missing file and
// OVERWRITE a modified one. extra lists installed files the bundle does not
// carry.
func RenderStatus(plan *overlay.Plan, extra []string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	pathWidth := width - badgeWidth - 2

	var b strings.Builder
	b.WriteString(renderSectionHeader("STATUS") + "\n")
	for _, a := range plan.Actions {
		switch a.Action {
		case overlay.Create:
			b.WriteString("  " + createStyle.Render("MISSING") + pathStyle.Render(truncatePath(a.Destination, pathWidth)) + "\n")
		case overlay.Overwrite:
			b.WriteString("  " + overwriteStyle.Render("MODIFIED") + pathStyle.Render(truncatePath(a.Destination, pathWidth)) + "\n")
		}
	}
	for _, p := range extra {
		b.WriteString("  " + skipStyle.Render("EXTRA") + pathStyle.Render(truncatePath(p, pathWidth)) + "\n")
	}

	c := plan.Counts()
	b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("  %d up to date, %d modified, %d missing, %d not from the bundle",
		c.Skip, c.Overwrite, c.Create, len(extra))) + "\n")
	return b.String()
}

// RenderAgents renders the agent table. Detected agents are marked.
func RenderAgents(profiles []agent.Profile, detected map[string]bool) string {
	idWidth, nameWidth := len("ID"), len("AGENT")
	for _, p := range profiles {
		idWidth = max(idWidth, lipgloss.Width(p.ID))
		nameWidth = max(nameWidth, lipgloss.Width(p.Name()))
	}
	idCol := lipgloss.NewStyle().Width(idWidth + 2)
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(idCol.Render("ID")+nameCol.Render("AGENT")+"COMMANDS / SKILLS") + "\n")
	for _, p := range profiles {
		mark := "  "
		if detected[p.ID] {
			mark = createStyle.UnsetWidth().Render("● ")
		}
		b.WriteString(mark + idCol.Render(p.ID) + nameCol.Render(p.Name()) +
			mutedStyle.Render(p.CommandDir+"  "+p.SkillDir) + "\n")
	}
	return b.String()
}

// Title renders the banner printed at the start of a run.
func Title(text string) string {
	return titleStyle.Render(text)
}
