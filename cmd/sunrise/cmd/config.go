package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sunrise-cli/sunrise/internal/config"
	"github.com/sunrise-cli/sunrise/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the sunrise configuration",
	Long: `Show or edit ~/.sunrise/config.jsonc ($SUNRISE_HOME overrides the
directory). The file accepts comments and trailing commas; edits made
here keep them.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, d.config.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(d.cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (" + strings.Join(config.SettableKeys(), ", ") + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		key, value := args[0], args[1]
		if key == "defaultAgent" {
			p, err := d.registry.Lookup(value)
			if err != nil {
				return err
			}
			value = p.ID
		}
		if err := d.config.Set(key, value); err != nil {
			return err
		}
		logging.UserSuccess("%s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		if err := d.config.Unset(args[0]); err != nil {
			return err
		}
		logging.UserSuccess("%s unset", args[0])
		return nil
	},
}

var configProtectCmd = &cobra.Command{
	Use:   "protect <prefix>...",
	Short: "Never write under the given project-relative prefixes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		if err := d.config.Protect(args...); err != nil {
			return err
		}
		logging.UserSuccess("Protected: %s", strings.Join(args, ", "))
		return nil
	},
}

var configOverrideCmd = &cobra.Command{
	Use:   "override <owner/repo> <clone-url>",
	Short: "Clone a reference from another URL (mirror, fork, local path)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		if err := d.config.SetCloneURLOverride(args[0], args[1]); err != nil {
			return err
		}
		logging.UserSuccess("%s → %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configShowCmd, configSetCmd, configUnsetCmd, configProtectCmd, configOverrideCmd)
	rootCmd.AddCommand(configCmd)
}
