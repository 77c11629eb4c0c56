package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/core/overlay"
	"github.com/sunrise-cli/sunrise/internal/logging"
	"github.com/sunrise-cli/sunrise/internal/tui"
)

// overlayRun is a resolved bundle mapped onto one project, ready to plan.
type overlayRun struct {
	projectDir string
	profile    agent.Profile
	dests      []overlay.Destination
	protected  *overlay.ProtectedPathSet
	opts       overlay.Options
}

// newOverlayRun resolves the agent and bundle named by the command's flags
// and maps the bundle onto the agent's layout in projectDir.
func newOverlayRun(cmd *cobra.Command, projectDir string) (*overlayRun, error) {
	d, err := newDeps()
	if err != nil {
		return nil, err
	}

	profile, err := resolveProfile(cmd, d, projectDir)
	if err != nil {
		return nil, err
	}
	src, err := resolveSource(cmd, d)
	if err != nil {
		return nil, err
	}

	logging.Debug("resolving bundle", "agent", profile.ID, "source", src.String(), "project", projectDir)
	bundle, err := d.resolver.Resolve(cmd.Context(), profile.ID, src)
	if err != nil {
		return nil, err
	}
	defer bundle.Close()

	dests, err := overlay.MapBundle(profile, bundle.Files())
	if err != nil {
		return nil, err
	}

	force, _ := cmd.Flags().GetBool("force")
	upgrade, _ := cmd.Flags().GetBool("upgrade")
	return &overlayRun{
		projectDir: projectDir,
		profile:    profile,
		dests:      dests,
		protected:  overlay.NewProtectedPathSet(profile.Roots(), d.cfg.ProtectedPaths...),
		opts:       overlay.Options{Force: force, Upgrade: upgrade},
	}, nil
}

// plan compares the mapped bundle against the project as it is now.
func (r *overlayRun) plan() (*overlay.Plan, error) {
	return overlay.Build(r.dests, os.DirFS(r.projectDir), r.protected, r.opts)
}

var planCmd = &cobra.Command{
	Use:   "plan [project-name|.]",
	Short: "Show what init would do, without writing anything",
	Long: `Show the overlay plan for a project: every file the bundle would
create, overwrite or leave unchanged. Nothing is written.`,
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
		printPlan(run, plan)
		return nil
	},
}

func printPlan(run *overlayRun, plan *overlay.Plan) {
	fmt.Fprintln(os.Stdout, tui.Title(fmt.Sprintf("%s → %s", run.profile.Name(), run.projectDir)))
	fmt.Fprint(os.Stdout, tui.RenderPlan(plan, outputWidth()))
	if plan.Confirmation != nil {
		question, detail := tui.ConfirmationText(run.projectDir, plan.Confirmation)
		logging.UserWarning("%s %s", question, detail)
	}
}

func init() {
	addPlanFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}
