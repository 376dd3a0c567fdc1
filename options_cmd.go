package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-shell/engine/config"
	"github.com/spaghettifunk/anima-shell/engine/options"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Inspect or change the persisted options",
}

var optionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every option",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := optionsPath()
		if err != nil {
			return err
		}
		opts, err := options.Load(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s, showing defaults\n", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", path)
		opts.Each(func(f options.Flag, on bool) {
			fmt.Fprintf(out, "  %-22s %t\n", f, on)
		})
		return nil
	},
}

var optionsSetCmd = &cobra.Command{
	Use:   "set key=bool...",
	Short: "Change options and save them",
	Example: `  anima-shell options set draw_fps=true
  anima-shell options set invert-y=1 music=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := optionsPath()
		if err != nil {
			return err
		}
		// corrupt records are replaced by defaults before applying changes
		opts, _ := options.Load(path)
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid option %q, expected key=bool", arg)
			}
			flag, err := options.ParseFlag(key)
			if err != nil {
				return err
			}
			on, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("option %s: %w", key, err)
			}
			opts.Set(flag, on)
		}
		if err := opts.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
		return nil
	},
}

func init() {
	optionsCmd.AddCommand(optionsShowCmd)
	optionsCmd.AddCommand(optionsSetCmd)
}

func optionsPath() (string, error) {
	cfg, err := config.Load(flagConfig, config.Flags{})
	if err != nil {
		return "", err
	}
	return cfg.Options.Path, nil
}
