// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/production-report-tui/internal/config"
	"github.com/j-veylop/production-report-tui/internal/db"
	"github.com/j-veylop/production-report-tui/internal/editing"
	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/logger"
	"github.com/j-veylop/production-report-tui/internal/metrics"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/snapshot"
)

var (
	// ErrExportInProgress is returned when an export is started while
	// another one is still running.
	ErrExportInProgress = errors.New("an export is already running")

	// ErrReadOnly is returned when the role may not change data.
	ErrReadOnly = errors.New("role is not allowed to change production data")

	// ErrModelNotFound is returned when an edited model no longer exists.
	ErrModelNotFound = errors.New("model not found")
)

type (
	// LinesChangedEvent is emitted after production lines were written.
	LinesChangedEvent struct {
		Lines []models.ProductionLine
	}

	// ExportFinishedEvent is emitted when an export completes or fails.
	ExportFinishedEvent struct {
		Format export.Format
		Window models.Window
		Path   string
		Err    error
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LinesChangedEvent) isServiceEvent()   {}
func (ExportFinishedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// Manager orchestrates storage, exports and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	database    *db.DB
	exporter    *export.Orchestrator
	metrics     *metrics.Metrics
	subscribers []chan ServiceEvent
	exporting   atomic.Bool
	cancel      context.CancelFunc

	notify func(title, body string) error
	now    func() time.Time
}

// NewManager opens the database and wires the export pipeline.
func NewManager(cfg *config.Config) (*Manager, error) {
	database, err := db.New(context.Background(), cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := &Manager{
		cfg:      cfg,
		database: database,
		metrics:  metrics.New(),
		notify: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
		now: time.Now,
	}
	m.exporter = export.New(
		export.WithProduct(cfg.Product),
		export.WithRole(cfg.Role),
		export.WithRenderTimeout(cfg.RenderTimeout),
		export.WithMetrics(m.metrics),
	)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error("Metrics server stopped", "error", err)
				m.broadcast(ErrorEvent{Service: "metrics", Error: err})
			}
		}()
	}

	return m, nil
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Metrics returns the process metrics.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Role returns the configured role.
func (m *Manager) Role() models.Role {
	return m.cfg.Role
}

// ProductionLines returns every stored production line.
func (m *Manager) ProductionLines(ctx context.Context) ([]models.ProductionLine, error) {
	return m.database.ListProductionLines(ctx)
}

// AvailableYears returns the years offered by the report window selector.
func (m *Manager) AvailableYears(ctx context.Context) ([]int, error) {
	lines, err := m.ProductionLines(ctx)
	if err != nil {
		return nil, err
	}
	return export.AvailableYears(lines, m.now()), nil
}

// AvailableMonths returns the month selectors of a year, whole year first.
func (m *Manager) AvailableMonths(ctx context.Context, year int) ([]int, error) {
	lines, err := m.ProductionLines(ctx)
	if err != nil {
		return nil, err
	}
	return export.AvailableMonths(lines, year), nil
}

// SaveModels replaces the models of a line.
func (m *Manager) SaveModels(ctx context.Context, lineID string, lineModels []models.Model) error {
	if !m.cfg.Role.CanEdit() {
		return ErrReadOnly
	}
	if err := m.database.ReplaceModels(ctx, lineID, lineModels); err != nil {
		return fmt.Errorf("failed to save models: %w", err)
	}
	m.linesChanged(ctx)
	return nil
}

// CommitEdit persists a commit prepared by an edit session. Nothing is
// written when the grid is unchanged. The session itself is never touched,
// so a failed commit can be prepared and sent again.
func (m *Manager) CommitEdit(ctx context.Context, lineID string, result editing.CommitResult) error {
	if !m.cfg.Role.CanEdit() {
		m.metrics.EditCommitted(metrics.ResultFailure)
		return ErrReadOnly
	}
	if !result.Changed {
		m.metrics.EditCommitted(metrics.ResultNoop)
		return nil
	}

	if err := m.persistEntries(ctx, lineID, result.Model, result.Entries); err != nil {
		m.metrics.EditCommitted(metrics.ResultFailure)
		logger.Error("Failed to commit edit", "line", lineID, "model", result.Model, "window", result.Window, "error", err)
		return err
	}

	m.metrics.EditCommitted(metrics.ResultSuccess)
	m.linesChanged(ctx)
	return nil
}

func (m *Manager) persistEntries(ctx context.Context, lineID, model string, entries []models.MonthlyEntry) error {
	line, err := m.database.GetProductionLine(ctx, lineID)
	if err != nil {
		return err
	}
	for i := range line.Models {
		if line.Models[i].Name == model {
			line.Models[i].MonthlyEntries = entries
			return m.database.ReplaceModels(ctx, lineID, line.Models)
		}
	}
	return fmt.Errorf("%w: %q in %s", ErrModelNotFound, model, line.PlantName)
}

// Import loads a JSON or YAML snapshot into the database and returns the
// number of lines written.
func (m *Manager) Import(ctx context.Context, path string) (int, error) {
	if !m.cfg.Role.CanPlan() {
		return 0, ErrReadOnly
	}

	lines, err := snapshot.LoadFile(path)
	if err != nil {
		return 0, err
	}
	for i := range lines {
		if err := m.database.SaveProductionLine(ctx, &lines[i]); err != nil {
			return i, fmt.Errorf("failed to import %q: %w", lines[i].PlantName, err)
		}
	}

	logger.Info("Imported production lines", "file", path, "count", len(lines))
	m.linesChanged(ctx)
	return len(lines), nil
}

// Export builds the report for the window and writes it to the export
// directory. Only one export runs at a time.
func (m *Manager) Export(ctx context.Context, w models.Window, format export.Format) (string, error) {
	if !m.exporting.CompareAndSwap(false, true) {
		return "", ErrExportInProgress
	}
	defer m.exporting.Store(false)

	path, err := m.export(ctx, w, format)
	m.broadcast(ExportFinishedEvent{Format: format, Window: w, Path: path, Err: err})

	if m.cfg.Notifications {
		title := "Report exported"
		body := filepath.Base(path)
		if err != nil {
			title = "Report export failed"
			body = err.Error()
		}
		if nerr := m.notify(title, body); nerr != nil {
			logger.Warn("Failed to send notification", "error", nerr)
		}
	}
	return path, err
}

// Exporting reports whether an export is running.
func (m *Manager) Exporting() bool {
	return m.exporting.Load()
}

func (m *Manager) export(ctx context.Context, w models.Window, format export.Format) (string, error) {
	lines, err := m.ProductionLines(ctx)
	if err != nil {
		return "", err
	}

	artifact, err := m.exporter.Export(ctx, lines, w, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.cfg.ExportDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(m.cfg.ExportDir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", artifact.Filename, err)
	}
	return path, nil
}

func (m *Manager) linesChanged(ctx context.Context) {
	lines, err := m.ProductionLines(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "db", Error: err})
		return
	}
	m.broadcast(LinesChangedEvent{Lines: lines})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and the database.
func (m *Manager) Close() error {
	m.cancel()

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return m.database.Close()
}
