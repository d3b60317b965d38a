package main

import (
	"fmt"

	"github.com/aretw0/lectern/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the lesson for consistency",
	Long:  `Loads the lesson and reports manifest errors, gate misconfiguration and suspicious items.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd, args)

		issues, err := validator.CheckDir(cmd.Context(), opts.Dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		errs := 0
		for _, issue := range issues {
			fmt.Fprintln(out, issue)
			if issue.Severity == validator.SeverityError {
				errs++
			}
		}
		if errs > 0 {
			return fmt.Errorf("found %d errors in %s", errs, opts.Dir)
		}
		fmt.Fprintf(out, "%s is valid (%d warnings)\n", opts.Dir, len(issues))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
