package main

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/imbecility/yt-resolver/pkg/config"
	"github.com/imbecility/yt-resolver/pkg/gateway"
)

const (
	ExitOK           = 0
	ExitCLIError     = 1
	ExitInvalidInput = 2
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// fs is swapped for an in-memory one in tests.
var fs = afero.NewOsFs()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yt-resolver",
		Short:         "Resolve YouTube links into a download format catalog",
		Long:          "yt-resolver turns a YouTube link into video metadata and a list of download formats with estimated sizes, and relays upstream downloads as attachments.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default ./yt-resolver.{yaml,toml,json})")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().Bool("log-json", false, "Log as JSON")

	root.AddCommand(newServeCmd())
	root.AddCommand(newResolveCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// loadGateway reads configuration for cmd and wires the service.
func loadGateway(cmd *cobra.Command) (gateway.Config, *gateway.Service, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(fs, cmd.Flags(), path)
	if err != nil {
		return gateway.Config{}, nil, err
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return gateway.Config{}, nil, err
	}
	return cfg, gw, nil
}
