package cmd

import (
	"github.com/spf13/cobra"

	"github.com/telekom/contact-intake/pkg/intakectl/output"
)

// NewListCommand lists stored submissions, newest first.
func NewListCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contact submissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			api, err := rt.Client()
			if err != nil {
				return err
			}
			list, err := api.ListSubmissions(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			format := rt.OutputFormat()
			if format == output.FormatTable {
				output.WriteSubmissionTable(rt.Writer(), list.Submissions)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, list)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of submissions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of submissions to skip")

	return cmd
}

// NewGetCommand fetches a single submission by its reference.
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <reference>",
		Short: "Show a single contact submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			api, err := rt.Client()
			if err != nil {
				return err
			}
			sub, err := api.GetSubmission(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format := rt.OutputFormat()
			if format == output.FormatTable {
				output.WriteSubmissionDetail(rt.Writer(), sub)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, sub)
		},
	}
}
