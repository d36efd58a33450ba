package app

import (
	"time"

	"github.com/j-veylop/production-report-tui/internal/editing"
	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/models"
	"github.com/j-veylop/production-report-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// LinesLoadedMsg contains the production lines read from the database.
type LinesLoadedMsg struct {
	Lines []models.ProductionLine
	Err   error
}

// RefreshMsg requests a reload of the production lines.
type RefreshMsg struct{}

// EditModelMsg asks the editor to open a model for a month.
type EditModelMsg struct {
	LineID    string
	PlantName string
	Model     models.Model
	Year      int
	Month     int
}

// CommitEditMsg asks the services to persist a prepared commit. The edit
// session stays with the editor tab.
type CommitEditMsg struct {
	LineID string
	Result editing.CommitResult
}

// EditCommittedMsg reports whether a prepared commit was persisted.
type EditCommittedMsg struct {
	LineID string
	Model  string
	Result editing.CommitResult
	Err    error
}

// ExportRequestMsg starts a report export.
type ExportRequestMsg struct {
	Window models.Window
	Format export.Format
}

// ExportResultMsg contains the result of an export operation.
type ExportResultMsg struct {
	Format export.Format
	Path   string
	Err    error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
