package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/contact-intake/pkg/intakectl/output"
)

// NewHealthCommand checks the service health endpoint. It does not require
// an admin token.
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check contact-intake service health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			api, err := rt.Client()
			if err != nil {
				return err
			}
			health, err := api.GetHealth(cmd.Context())
			if err != nil {
				return err
			}

			format := rt.OutputFormat()
			if format == output.FormatTable {
				_, _ = fmt.Fprintf(rt.Writer(), "%s (server version %s)\n", health.Status, health.Version)
				return nil
			}
			return output.WriteObject(rt.Writer(), format, health)
		},
	}
}
