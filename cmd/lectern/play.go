package main

import (
	"context"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [dir]",
	Short: "Play the lesson in the terminal",
	Long: `Starts the interactive terminal player.
When stdout is not a terminal the lesson is printed instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunPlay(sigCtx, cli.PlayOptions{
			Options: commonOptions(cmd, args),
			Plain:   plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Bool("plain", false, "Print every item instead of starting the player")
}
