package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/logging"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List supported agents",
	Long: `List every agent sunrise can install for, with the folders it uses.
Agents detected in the current directory (or --dir) are marked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		targetDir, err := resolveTargetDir([]string{dir})
		if err != nil {
			return err
		}

		detected := make(map[string]bool)
		for _, p := range d.registry.Detect(targetDir) {
			detected[p.ID] = true
		}
		fmt.Fprint(os.Stdout, tui.RenderAgents(d.registry.Profiles(), detected))
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "List agents whose folders exist in a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		targetDir, err := resolveTargetDir(args)
		if err != nil {
			return err
		}

		found := d.registry.Detect(targetDir)
		if len(found) == 0 {
			logging.UserInfo("No agents detected in %s", targetDir)
			return nil
		}
		for _, p := range found {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", p.ID, p.Name())
		}
		return nil
	},
}

func init() {
	agentsCmd.Flags().StringP("dir", "d", "", "Project directory to detect agents in (default: current directory)")
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(detectCmd)
}
