package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lectern",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lectern version %s\n", strings.TrimSpace(lectern.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
