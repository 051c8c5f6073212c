// Package cli implements the markiq command-line interface: run collision
// checks, inspect jurisdiction routing, generate search variants, and serve
// the HTTP API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey keys the CLIContext inside a command's context.
type cliContextKey struct{}

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
// Configuration is loaded lazily: offices and variants run entirely offline
// and must not fail because no registry credentials are configured.
type CLIContext struct {
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration

	opts *RootOptions
	cfg  *config.Config
}

// LoadConfig resolves the runtime configuration on first use, searching the
// conventional paths when no --config flag was given.
func (c *CLIContext) LoadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := c.opts.ConfigPath
	if path == "" {
		path = findConfigFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// findConfigFile probes the conventional locations and returns the first
// file that exists, or empty so Load falls back to environment variables.
func findConfigFile() string {
	candidates := []string{"./markiq.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".markiq", "config.yaml"))
	}
	candidates = append(candidates, "/etc/markiq/config.yaml")
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// NewRootCommand assembles the markiq command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "markiq",
		Short: "Trademark collision detection for candidate brand names",
		Long: "markiq checks a candidate brand name against registered trademarks\n" +
			"across national and supranational registers, generating phonetic and\n" +
			"typographic search variants and ranking hits by collision risk.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./markiq.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "global operation timeout")

	cmd.AddCommand(
		NewCheckCommand(),
		NewOfficesCommand(),
		NewVariantsCommand(),
		NewServeCommand(),
	)

	return cmd
}

// persistentPreRun initializes the logger and stores the CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cliCtx := &CLIContext{
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
		opts:         opts,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initLogger builds a console logger on stderr so command output on stdout
// stays machine-readable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := logging.LevelWarn
	switch strings.ToLower(opts.LogLevel) {
	case "debug":
		level = logging.LevelDebug
	case "info":
		level = logging.LevelInfo
	case "error":
		level = logging.LevelError
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLI context not initialized")
	}
	return cliCtx, nil
}

// Execute is the entry point for the markiq binary.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// newTable builds a tablewriter with the house style applied.
func newTable(cmd *cobra.Command, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(true)
	table.SetColumnSeparator(" ")
	return table
}

// riskLabel colors a risk level for terminal output.
func riskLabel(risk string) string {
	switch risk {
	case "high":
		return color.New(color.FgRed, color.Bold).Sprint("HIGH")
	case "medium":
		return color.New(color.FgYellow).Sprint("MEDIUM")
	case "low":
		return color.New(color.FgGreen).Sprint("LOW")
	default:
		return risk
	}
}
