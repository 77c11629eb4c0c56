package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/core/backup"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

var backupsCmd = &cobra.Command{
	Use:   "backups [dir]",
	Short: "List template backups in a project",
	Long: `List the backups --upgrade has taken in a project, oldest first.

Backups sit next to the folder they copy, as <folder>.backup.<timestamp>.
They are never removed by sunrise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		projectDir, err := resolveTargetDir(args)
		if err != nil {
			return err
		}

		var roots []string
		for _, p := range d.registry.Profiles() {
			roots = append(roots, p.Roots()...)
		}
		slices.Sort(roots)
		roots = slices.Compact(roots)

		records, err := backup.NewManager(projectDir).List(roots)
		if err != nil {
			return fmt.Errorf("listing backups: %w", err)
		}
		fmt.Fprint(os.Stdout, tui.RenderBackups(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupsCmd)
}
