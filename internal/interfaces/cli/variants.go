package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/accelari/trademarkiq2-sub002/internal/application/detection"
	rediscache "github.com/accelari/trademarkiq2-sub002/internal/infrastructure/database/redis"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

type variantsOptions struct {
	max  int
	mode string
}

// NewVariantsCommand creates the variants command: preview the search terms a
// detection run would generate for a candidate name, without searching.
func NewVariantsCommand() *cobra.Command {
	opts := &variantsOptions{}

	cmd := &cobra.Command{
		Use:   "variants NAME",
		Short: "Generate search-term variants for a candidate name",
		Long: "Variants prints the phonetic, visual, conceptual, root, and misspelling\n" +
			"search terms a collision check would derive from the candidate name.\n" +
			"The exact form is always listed first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVariants(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.max, "max", 0, "variant count cap (0 uses the default)")
	cmd.Flags().StringVar(&opts.mode, "mode", "fast", "variant generation mode (fast, rich)")

	return cmd
}

func runVariants(cmd *cobra.Command, name string, opts *variantsOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	provider := detection.NewVariantProvider(cliCtx.Logger,
		detection.WithVariantCache(rediscache.NewMemoryCache(), 0))

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	variants, err := provider.Variants(ctx, name, nil, nil,
		trademark.GenerationMode(opts.mode), opts.max)
	if err != nil {
		return err
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, variants)
	}

	table := newTable(cmd, []string{"Term", "Kind", "Rationale"})
	for _, v := range variants {
		table.Append([]string{v.Term, string(v.Kind), v.Rationale})
	}
	table.Render()
	return nil
}
