package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/accelari/trademarkiq2-sub002/internal/app"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
)

type serveOptions struct {
	port int
}

// NewServeCommand creates the serve command: run the HTTP API server in the
// foreground until interrupted.
func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the collision-detection HTTP API server",
		Long: "Serve starts the HTTP API: detection runs, variant previews, office\n" +
			"lookups, health probes, and Prometheus metrics.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 0, "listen port (overrides configuration)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cliCtx.LoadConfig()
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	// The server logs through the configured format, not the CLI's
	// stderr console logger.
	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	application, err := app.New(cfg, logger, app.Options{Version: Version})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}
