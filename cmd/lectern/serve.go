package main

import (
	"context"

	"github.com/aretw0/lectern/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the lesson over HTTP",
	Long: `Starts the HTTP host: an HTML page, JSON state and view models,
navigation endpoints, store variables, an SSE event stream and Prometheus metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		watch, _ := cmd.Flags().GetBool("watch")

		opts := commonOptions(cmd, args)
		cli.PrintBanner(cmd.ErrOrStderr())

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunServe(sigCtx, cli.ServeOptions{
			Options: opts,
			Port:    port,
			Watch:   watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: http.port from config, 8080)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload the lesson when its files change")
}
