package main

import (
	"fmt"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the lesson sequence as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the lesson items, their gates and
auto-advance edges. With --at, the given item is highlighted as current.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd, args)
		at, _ := cmd.Flags().GetInt("at")

		page, err := lesson.Open(cmd.Context(), opts.Dir, memory.NewStore())
		if err != nil {
			return err
		}

		snap := page.Controller.Snapshot()
		if domain.InRange(at, snap.Total) {
			snap.Current = at
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(page.Items(), &snap))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(page.Items(), nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("at", -1, "Highlight the lesson state at this 0-based item")
}
