package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/accelari/trademarkiq2-sub002/internal/domain/jurisdiction"
	"github.com/accelari/trademarkiq2-sub002/pkg/errors"
)

// NewOfficesCommand creates the offices command: show which registers a
// detection run would search for the given countries.  Runs entirely offline.
func NewOfficesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "offices COUNTRY...",
		Short: "Show the trademark offices searched for target countries",
		Long: "Offices resolves each country (code or free-text name) to the registers\n" +
			"a collision check would query: the national office, WIPO with the correct\n" +
			"designation code, and EUIPO for EU member states.",
		Args: cobra.MinimumNArgs(1),
		RunE: runOffices,
	}
}

type officeRow struct {
	Country        string                `json:"country"`
	Offices        []jurisdiction.Office `json:"offices"`
	DirectRegister bool                  `json:"direct_register"`
}

func runOffices(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	jmap := jurisdiction.NewMap()
	rows := make([]officeRow, 0, len(args))
	for _, raw := range args {
		code := jurisdiction.NormalizeCountry(raw)
		if code == "" {
			return errors.Newf(errors.ErrCodeCountryUnknown, "country %q must not be empty", raw)
		}
		rows = append(rows, officeRow{
			Country:        code,
			Offices:        jmap.OfficesForCountry(code),
			DirectRegister: jurisdiction.HasDirectNationalRegister(code),
		})
	}

	if strings.EqualFold(cliCtx.OutputFormat, "json") {
		return printJSON(cmd, rows)
	}

	table := newTable(cmd, []string{"Country", "Office", "Name", "Type", "Designation"})
	indirect := false
	for _, row := range rows {
		for _, office := range row.Offices {
			table.Append([]string{
				row.Country,
				office.Code,
				office.Name,
				string(office.Type),
				office.Designation,
			})
		}
		if !row.DirectRegister {
			indirect = true
		}
	}
	table.Render()

	if indirect {
		fmt.Fprintln(cmd.OutOrStdout(),
			"\nNote: some countries have no directly searchable national register;"+
				"\ncoverage for them comes via EUIPO and WIPO only.")
	}
	return nil
}
