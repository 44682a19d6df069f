package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telekom/contact-intake/pkg/intakectl/client"
	"github.com/telekom/contact-intake/pkg/intakectl/output"
)

type Config struct {
	OutputWriter io.Writer
}

type runtimeState struct {
	server       string
	token        string
	outputFormat string
	insecure     bool
	writer       io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{OutputWriter: os.Stdout}
}

// NewRootCommand builds the intakectl command tree. Connection details come
// from flags or the INTAKECTL_SERVER / INTAKECTL_TOKEN environment variables.
func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "intakectl",
		Short: "Contact intake admin CLI",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.server == "" {
				rt.server = os.Getenv("INTAKECTL_SERVER")
			}
			if rt.token == "" {
				rt.token = os.Getenv("INTAKECTL_TOKEN")
			}
			if rt.outputFormat == "" {
				rt.outputFormat = os.Getenv("INTAKECTL_OUTPUT")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.server, "server", "", "Base URL of the contact-intake service")
	root.PersistentFlags().StringVar(&rt.token, "token", "", "Admin bearer token")
	root.PersistentFlags().StringVarP(&rt.outputFormat, "output", "o", "", "Output format: table, json, yaml")
	root.PersistentFlags().BoolVar(&rt.insecure, "insecure-skip-tls-verify", false, "Skip TLS certificate verification")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewListCommand(),
		NewGetCommand(),
		NewHealthCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) OutputFormat() output.Format {
	if rt.outputFormat != "" {
		return output.Format(rt.outputFormat)
	}
	return output.FormatTable
}

func (rt *runtimeState) Client() (*client.Client, error) {
	if rt.server == "" {
		return nil, errors.New("server is required: set --server or INTAKECTL_SERVER")
	}
	var opts []client.Option
	if rt.insecure {
		opts = append(opts, client.WithInsecureTLS())
	}
	return client.New(rt.server, rt.token, opts...)
}
