// Package main is the entry point for the production report TUI.
// It wires configuration and services, then runs either the Bubble Tea
// program or one of the batch commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/j-veylop/production-report-tui/internal/config"
	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/services"
	"github.com/j-veylop/production-report-tui/internal/version"
)

// rootCmd runs the TUI when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "prt",
	Short: "Production report TUI",
	Long: `prt tracks daily production, forecast and capacity per plant model and
renders them into PDF, Excel and HTML reports.

Running prt without a command opens the terminal UI.

Keyboard Shortcuts:
  1-4             Switch between tabs (Plants, Editor, Export, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  e               Edit the selected month
  r               Reload data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH            SQLite database path
  EXPORT_DIR               Directory receiving exported reports
  REPORT_PRODUCT           Report filename prefix (default: NZT)
  USER_ROLE                staff | manager | admin
  DOCUMENT_RENDER_TIMEOUT  Per-page render timeout (default: 10s)
  METRICS_ADDR             Serve Prometheus metrics on this address
  NOTIFICATIONS            Desktop notifications after exports (default: true)
  LOG_LEVEL                debug | info | warn | error

Configuration:
  The application looks for a .env file in the current directory, then in
  ~/.config/production-report/ and ~/.production-report/.`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(
		tuiCmd,
		exportCmd,
		importCmd,
		datesCmd,
		versionCmd,
	)
}

func main() {
	rootCmd.Version = version.Info()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openServices loads the configuration and starts the service manager for
// the batch commands, which log to stderr.
func openServices(adjust func(*config.Config)) (*services.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
	}
	logger.Init(cfg.LogLevel, os.Stderr)

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return mgr, nil
}

func closeServices(mgr *services.Manager) {
	if err := mgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", err)
	}
}
