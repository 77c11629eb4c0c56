package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/logging"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sunrise",
	Short: "Overlay agent templates onto a project without clobbering your work",
	Long: `Sunrise merges a template bundle (commands, skills, scripts and memory
docs) into the folders an AI coding agent reads in a project.

Files are planned before anything is written: new files are created,
identical files are left alone and changed files are overwritten only
with consent. --upgrade backs up every folder it is about to change.
Paths under specs/ and .git/ are never touched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		logging.Setup(verbose, logJSON, cmd.ErrOrStderr())
		logging.StartRun()
		logging.Debug("starting", "command", cmd.CommandPath(), "version", Version)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sunrise %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
