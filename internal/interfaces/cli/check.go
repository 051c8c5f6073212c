package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	"github.com/accelari/trademarkiq2-sub002/internal/config"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/conflict"
	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/monitoring/logging"
	"github.com/accelari/trademarkiq2-sub002/internal/infrastructure/registry"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

type checkOptions struct {
	classes   []int
	countries []string
	mode      string
	status    string
}

// NewCheckCommand creates the check command: a full collision-detection run
// against the configured registry provider.
func NewCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check NAME",
		Short: "Check a candidate brand name for trademark collisions",
		Long: "Check generates search variants for the candidate name, searches the\n" +
			"offices relevant to the target countries, and ranks registered marks\n" +
			"by collision risk.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntSliceVar(&opts.classes, "class", nil, "Nice class filter, repeatable (1-45)")
	cmd.Flags().StringSliceVar(&opts.countries, "country", nil, "target country, repeatable (code or name)")
	cmd.Flags().StringVar(&opts.mode, "mode", "fast", "variant generation mode (fast, rich)")
	cmd.Flags().StringVar(&opts.status, "status", "", "status filter (active, expired, all; default active)")

	return cmd
}

func runCheck(cmd *cobra.Command, name string, opts *checkOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg, err := cliCtx.LoadConfig()
	if err != nil {
		return err
	}
	engine, err := buildLocalEngine(cfg, cliCtx.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	resp, err := engine.Detect(ctx, detection.Request{
		Name:        name,
		NiceClasses: opts.classes,
		Countries:   opts.countries,
		Mode:        trademark.GenerationMode(opts.mode),
		Status:      opts.status,
	})
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, resp)
	}
	printCheckResult(cmd, resp)
	return nil
}

// buildLocalEngine assembles a detection engine for one-shot CLI use: an
// in-process variant cache, no broker, no audit trail.
func buildLocalEngine(cfg *config.Config, log logging.Logger) (*detection.Engine, error) {
	registryClient, err := registry.NewClient(cfg.Registry, log)
	if err != nil {
		return nil, err
	}
	aggregator, err := detection.NewAggregator(registryClient,
		cfg.Detection.SearchConcurrency, cfg.Detection.MaxAggregated, log)
	if err != nil {
		return nil, err
	}
	ranker, err := conflict.NewRanker(cfg.Detection.InclusionThreshold, cfg.Detection.ReportLimit)
	if err != nil {
		return nil, err
	}
	variants := detection.NewVariantProvider(log,
		detection.WithVariantCache(rediscache.NewMemoryCache(), cfg.Detection.VariantCacheTTL))

	return detection.NewEngine(detection.EngineDeps{
		Jurisdictions: jurisdiction.NewMap(),
		Variants:      variants,
		Aggregator:    aggregator,
		Ranker:        ranker,
		Details:       registryClient,
		Logger:        log,
	}, cfg.Detection, cfg.Registry)
}

func printCheckResult(cmd *cobra.Command, resp *detection.Response) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Candidate:  %s\n", resp.CandidateName)
	if len(resp.Countries) > 0 {
		fmt.Fprintf(out, "Countries:  %s\n", strings.Join(resp.Countries, ", "))
	}
	fmt.Fprintf(out, "Offices:    %s\n", strings.Join(officeLabels(resp.Offices), ", "))
	fmt.Fprintf(out, "Variants:   %d searched, %d hits, %d distinct marks\n",
		len(resp.Variants), resp.TotalHits, resp.AggregatedHits)
	fmt.Fprintf(out, "Risk:       %s (%d conflicts, %dms)\n\n",
		riskLabel(string(resp.HighestRisk)), len(resp.Conflicts), resp.DurationMS)

	if len(resp.Conflicts) == 0 {
		fmt.Fprintln(out, "No conflicting marks found.")
	} else {
		table := newTable(cmd, []string{"Mark", "Office", "Classes", "Score", "Risk", "Holder"})
		for _, c := range resp.Conflicts {
			markName := c.Name
			if c.FamousMark {
				markName += " *"
			}
			holder := ""
			if c.Detail != nil {
				holder = c.Detail.Holder
			}
			table.Append([]string{
				markName,
				c.Office,
				joinClasses(c.NiceClasses),
				strconv.Itoa(c.CombinedScore),
				riskLabel(string(c.RiskLevel)),
				holder,
			})
		}
		table.Render()
		if famousAmong(resp.Conflicts) {
			fmt.Fprintln(out, "\n* well-known mark; protection may extend beyond the listed classes")
		}
	}

	for _, w := range resp.Warnings {
		fmt.Fprintf(out, "\nWarning: %s: %s\n", w.Country, w.Message)
	}
}

func officeLabels(offices []jurisdiction.Office) []string {
	labels := make([]string, 0, len(offices))
	for _, o := range offices {
		labels = append(labels, o.Code)
	}
	return labels
}

func joinClasses(classes []int) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		parts = append(parts, strconv.Itoa(c))
	}
	return strings.Join(parts, ",")
}

func famousAmong(conflicts []trademark.ScoredConflict) bool {
	for _, c := range conflicts {
		if c.FamousMark {
			return true
		}
	}
	return false
}
