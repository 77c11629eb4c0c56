package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Compare a project's installed templates with a bundle",
	Long: `Compare the templates installed in a project with a bundle.

Lists files the bundle has but the project lacks (missing), files whose
content differs from the bundle (modified), and files in the agent's
folders that the bundle does not carry (extra).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := resolveTargetDir(args)
		if err != nil {
			return err
		}
		run, err := newOverlayRun(cmd, projectDir)
		if err != nil {
			return err
		}
		// Status never applies, so it plans as if consent were given.
		run.opts.Force = true
		plan, err := run.plan()
		if err != nil {
			return err
		}

		installed, err := agent.InstalledFiles(run.profile, projectDir)
		if err != nil {
			return fmt.Errorf("reading installed templates: %w", err)
		}
		inBundle := make(map[string]bool, len(run.dests))
		for _, d := range run.dests {
			inBundle[d.Path] = true
		}
		var extra []string
		for _, f := range installed {
			dest, err := agent.MapDestination(run.profile, f)
			if err != nil {
				return err
			}
			if !inBundle[dest] && !run.protected.Excludes(dest) {
				extra = append(extra, dest)
			}
		}
		sort.Strings(extra)

		fmt.Fprintln(os.Stdout, tui.Title(fmt.Sprintf("%s → %s", run.profile.Name(), projectDir)))
		fmt.Fprint(os.Stdout, tui.RenderStatus(plan, extra, outputWidth()))
		return nil
	},
}

func init() {
	addSourceFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
