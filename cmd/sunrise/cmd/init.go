package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/core/overlay"
	"github.com/sunrise-cli/sunrise/internal/errors"
	"github.com/sunrise-cli/sunrise/internal/logging"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

var initCmd = &cobra.Command{
	Use:   "init [project-name|.]",
	Short: "Install a template bundle into a project",
	Long: `Install a template bundle into the folders an agent reads.

  sunrise init my-project --ai claude     Create my-project/ and install
  sunrise init . --ai cursor-agent        Install into the current directory
  sunrise init --here --upgrade           Refresh templates, backing up first

Merging into a non-empty directory asks for confirmation. Without a
terminal, pass --force (or --yes) to accept, or --upgrade to back up every
folder that changes before overwriting it. Files under specs/, .git/ and
any configured protected path are never written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		here, _ := cmd.Flags().GetBool("here")
		projectDir, err := resolveProjectDir(args, here)
		if err != nil {
			return err
		}
		run, err := newOverlayRun(cmd, projectDir)
		if err != nil {
			return err
		}
		plan, err := run.plan()
		if err != nil {
			return err
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			printPlan(run, plan)
			return nil
		}

		if plan.Confirmation != nil {
			ok, err := confirm(cmd, run, plan)
			if err != nil {
				return err
			}
			if !ok {
				logging.UserWarning("Aborted; nothing was written.")
				return nil
			}
			run.opts.Force = true
			if plan, err = run.plan(); err != nil {
				return err
			}
		}

		if err := os.MkdirAll(run.projectDir, 0o755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}

		engine := overlay.NewEngine(run.projectDir, run.protected)
		summary, err := engine.Apply(plan)
		if err != nil {
			var partial *overlay.PartialApplyError
			if errors.As(err, &partial) {
				fmt.Fprint(os.Stderr, tui.RenderPartialFailure(partial))
			}
			return err
		}

		fmt.Fprint(os.Stdout, tui.RenderSummary(summary))
		logging.UserSuccess("%s templates installed in %s", run.profile.Name(), run.projectDir)
		return nil
	},
}

// confirm asks before merging into a non-empty project. --yes answers for
// the operator; without a terminal there is nobody to ask.
func confirm(cmd *cobra.Command, run *overlayRun, plan *overlay.Plan) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	if !interactive() {
		return false, errors.ConfirmationRequired(fmt.Sprintf(
			"%s is not empty and %d file(s) would be overwritten; re-run with --force to merge, or --upgrade to back up and replace",
			run.projectDir, plan.Confirmation.Conflicts))
	}

	fmt.Fprint(os.Stdout, tui.RenderPlan(plan, outputWidth()))
	question, detail := tui.ConfirmationText(run.projectDir, plan.Confirmation)
	return tui.Confirm(os.Stdin, os.Stdout, question, detail)
}

func init() {
	addPlanFlags(initCmd)
	initCmd.Flags().Bool("dry-run", false, "Print the plan without writing anything")
	initCmd.Flags().BoolP("yes", "y", false, "Answer yes to the confirmation prompt")
	rootCmd.AddCommand(initCmd)
}
