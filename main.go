/*
anima-shell hosts hot reloadable game modules around a shared world and a
scene graph renderer.

Usage:

	anima-shell run                       - Run the shell with the testbed module
	anima-shell run --module name=path    - Also load a native module
	anima-shell options show              - Print the persisted options
	anima-shell options set key=bool ...  - Change persisted options
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagDebug  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "anima-shell",
	Short: "Hot reloadable game runtime shell",
	Long: `anima-shell owns the world, the scene graph renderers and the frame
loop, and drives native modules that can be rebuilt while it runs.

Configuration is read from --config, or from anima.toml / anima.yaml in the
working directory. Command line flags override the file.

Examples:
  anima-shell run
  anima-shell run --headless --fps 30
  anima-shell run --module gameplay=target/libgameplay.so
  anima-shell options set draw_fps=true`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a TOML or YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(optionsCmd)
}
