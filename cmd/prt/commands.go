package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/production-report-tui/internal/config"
	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/version"
)

// Export flags
var (
	exportYear  int    // --year
	exportMonth int    // --month, 1-12; 0 exports the whole year
	exportOut   string // --out directory, overrides EXPORT_DIR
)

var exportCmd = &cobra.Command{
	Use:   "export pdf|xlsx|html",
	Short: "Render a report without opening the UI",
	Long: `Render a production report into the export directory.

Examples:
  prt export pdf --year 2024 --month 2     # February 2024 report
  prt export xlsx --year 2024              # whole-year workbook
  prt export html --year 2024 --out ./out  # write into ./out`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"pdf", "xlsx", "html"},
	RunE:      runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import production lines from a JSON or YAML snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openServices(nil)
		if err != nil {
			return err
		}
		defer closeServices(mgr)

		n, err := mgr.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d production lines\n", n)
		return nil
	},
}

// datesOutput is the YAML document printed by the dates command.
type datesOutput struct {
	Years  []int            `yaml:"years"`
	Months map[int][]string `yaml:"months"`
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the years and months that hold data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr, err := openServices(nil)
		if err != nil {
			return err
		}
		defer closeServices(mgr)

		out, err := collectDates(cmd.Context(), mgr)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode dates: %w", err)
		}
		return enc.Close()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Report year (default: current year)")
	exportCmd.Flags().IntVar(&exportMonth, "month", 0, "Report month 1-12; omit for the whole year")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: EXPORT_DIR)")
}

// dateSource is the part of the services the dates command reads.
type dateSource interface {
	AvailableYears(ctx context.Context) ([]int, error)
	AvailableMonths(ctx context.Context, year int) ([]int, error)
}

func collectDates(ctx context.Context, src dateSource) (datesOutput, error) {
	years, err := src.AvailableYears(ctx)
	if err != nil {
		return datesOutput{}, err
	}

	out := datesOutput{Years: years, Months: make(map[int][]string, len(years))}
	for _, year := range years {
		months, err := src.AvailableMonths(ctx, year)
		if err != nil {
			return datesOutput{}, err
		}
		labels := make([]string, 0, len(months))
		for _, m := range months {
			if m == models.WholeYear {
				continue
			}
			labels = append(labels, models.MonthAbbrev(m))
		}
		out.Months[year] = labels
	}
	return out, nil
}

// windowFromFlags converts the 1-based --month flag into a report window.
func windowFromFlags(year, month, currentYear int) (models.Window, error) {
	if year == 0 {
		year = currentYear
	}
	if month < 0 || month > 12 {
		return models.Window{}, fmt.Errorf("invalid --month %d: want 1-12", month)
	}

	w := models.YearWindow(year)
	if month > 0 {
		w = models.MonthWindow(year, month-1)
	}
	return w, w.Validate()
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}

	mgr, err := openServices(func(cfg *config.Config) {
		if exportOut != "" {
			cfg.ExportDir = exportOut
		}
	})
	if err != nil {
		return err
	}
	defer closeServices(mgr)

	w, err := windowFromFlags(exportYear, exportMonth, time.Now().Year())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := mgr.Export(ctx, w, format)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", w, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
