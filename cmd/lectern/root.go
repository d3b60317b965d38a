package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Lectern plays step-by-step lessons and slide decks",
	Long: `Lectern composes lesson pages from a directory of markdown items.
Lessons are played in the terminal, served over HTTP or exposed to agents over MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the lesson")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./lectern.yaml when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// commonOptions reads the persistent flags. A positional argument names the
// lesson directory unless --dir was given.
func commonOptions(cmd *cobra.Command, args []string) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{Dir: dir, ConfigPath: configPath, Debug: debug}
}
