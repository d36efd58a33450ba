package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/production-report-tui/internal/app"
	"github.com/j-veylop/production-report-tui/internal/config"
	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/services"
	"github.com/j-veylop/production-report-tui/internal/ui/tabs/editor"
	"github.com/j-veylop/production-report-tui/internal/ui/tabs/info"
	"github.com/j-veylop/production-report-tui/internal/ui/tabs/plants"
	"github.com/j-veylop/production-report-tui/internal/ui/tabs/reports"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI (default)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runTUI()
	},
}

// runTUI contains the interactive application logic.
func runTUI() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Send logs to a file next to the database; stderr belongs to the TUI
	logFile, err := tea.LogToFile(filepath.Join(filepath.Dir(cfg.DatabasePath), "prt.log"), "")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger.Init(cfg.LogLevel, logFile)

	// 3. Initialize the service manager
	// This opens the database and starts the metrics endpoint when configured
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer closeServices(svcManager)

	// 4. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 5. Initialize tabs with shared state
	state := model.GetState()
	tabs := []app.Tab{
		plants.New(state),                          // Tab 0: Plants - lines, models and preview chart
		editor.New(state, cfg.Role),                // Tab 1: Editor - month grid
		reports.New(state, cfg),                    // Tab 2: Export - PDF, XLSX and HTML reports
		info.New(state, cfg, svcManager.Metrics()), // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 6. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 7. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer (full terminal)
	)

	// 8. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// 9. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
