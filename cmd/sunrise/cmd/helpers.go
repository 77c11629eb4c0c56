package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/template"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

// resolveProjectDir turns the optional project argument into an absolute
// directory. "." and --here mean the current directory; a name is taken
// relative to it.
func resolveProjectDir(args []string, here bool) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	switch {
	case here && name != "" && name != ".":
		return "", fmt.Errorf("--here cannot be combined with a project name (%q)", name)
	case here || name == ".":
		return cwd, nil
	case name == "":
		return "", fmt.Errorf("specify a project name, '.', or --here")
	}

	dir := name
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return "", fmt.Errorf("%s exists and is not a directory", dir)
	}
	return filepath.Clean(dir), nil
}

// resolveTargetDir resolves an optional directory argument or falls back
// to cwd.
func resolveTargetDir(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return filepath.Abs(args[0])
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// resolveSource reads --source / --ref, falling back to the configured
// default reference.
func resolveSource(cmd *cobra.Command, d *deps) (template.Source, error) {
	local, _ := cmd.Flags().GetString("source")
	ref, _ := cmd.Flags().GetString("ref")

	switch {
	case local != "" && ref != "":
		return template.Source{}, fmt.Errorf("--source and --ref are mutually exclusive")
	case local != "":
		abs, err := filepath.Abs(local)
		if err != nil {
			return template.Source{}, fmt.Errorf("resolving %s: %w", local, err)
		}
		return template.LocalSource(abs), nil
	case ref != "":
		return template.RemoteSource(ref), nil
	case d.cfg.DefaultRef != "":
		return template.RemoteSource(d.cfg.DefaultRef), nil
	}
	return template.Source{}, fmt.Errorf("no template source: pass --source <dir> or --ref <owner/repo>, or set one with 'sunrise config set defaultRef <ref>'")
}

// resolveProfile picks the agent from --ai, the configured default, or the
// single agent detected in projectDir, in that order.
func resolveProfile(cmd *cobra.Command, d *deps, projectDir string) (agent.Profile, error) {
	id, _ := cmd.Flags().GetString("ai")
	if id == "" {
		id = d.cfg.DefaultAgent
	}
	if id != "" {
		return d.registry.Lookup(id)
	}

	detected := d.registry.Detect(projectDir)
	switch len(detected) {
	case 1:
		return detected[0], nil
	case 0:
		return agent.Profile{}, fmt.Errorf("no agent selected: pass --ai <agent> (one of %s)", strings.Join(d.registry.IDs(), ", "))
	}
	ids := make([]string, len(detected))
	for i, p := range detected {
		ids[i] = p.ID
	}
	return agent.Profile{}, fmt.Errorf("several agents detected (%s): pass --ai to pick one", strings.Join(ids, ", "))
}

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// outputWidth is the terminal width, or a fixed width when not a terminal.
func outputWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return tui.DefaultWidth
}

// addSourceFlags adds the flags shared by commands that read a bundle.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("ai", "", "Agent to install for (see 'sunrise agents')")
	cmd.Flags().String("source", "", "Local bundle directory")
	cmd.Flags().String("ref", "", "Remote bundle reference (owner/repo[@ref], URL)")
}

// addPlanFlags adds the flags that shape an overlay plan.
func addPlanFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().Bool("here", false, "Use the current directory as the project")
	cmd.Flags().Bool("force", false, "Overwrite changed files without asking")
	cmd.Flags().Bool("upgrade", false, "Back up and replace changed template files")
}
