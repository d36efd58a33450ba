package app

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/j-veylop/production-report-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading is shown with a spinner until it is cleared.
	NotificationLoading
)

var notificationTypeNames = map[NotificationType]string{
	NotificationSuccess: "success",
	NotificationError:   "error",
	NotificationWarning: "warning",
	NotificationInfo:    "info",
	NotificationLoading: "loading",
}

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	if name, ok := notificationTypeNames[n]; ok {
		return name
	}
	return "unknown"
}

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// Resources tracked by the loading state.
const (
	ResourceInitial = "initial"
	ResourceLines   = "lines"
	ResourceExport  = "export"
)

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	// Duration of zero keeps the notification until it is removed.
	Duration time.Duration
}

func (n Notification) expiredAt(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) > n.Duration
}

// State is the data shared by every tab. The root model writes it, tabs
// read it while rendering.
type State struct {
	mu  sync.RWMutex
	now func() time.Time

	lines         []models.ProductionLine
	selectedLine  int
	selectedModel int
	lastUpdated   time.Time

	loading       map[string]bool
	notifications []Notification
}

// NewState creates an empty state that is still loading.
func NewState() *State {
	return &State{
		now:     time.Now,
		loading: map[string]bool{ResourceInitial: true},
	}
}

// SetLoading marks a resource as loading or done.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loading {
		s.loading[resource] = true
		return
	}
	delete(s.loading, resource)
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loading) > 0
}

// IsInitialLoading returns true until the first line load finishes.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[ResourceInitial]
}

// IsExporting reports whether an export job is running. Export keys are
// disabled while it is.
func (s *State) IsExporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[ResourceExport]
}

// GetLoadingResources returns the loading resources in name order.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := lo.Keys(s.loading)
	slices.Sort(resources)
	return resources
}

// SetLines replaces the production lines and keeps the selection in range.
func (s *State) SetLines(lines []models.ProductionLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = lines
	s.lastUpdated = s.now()

	if s.selectedLine >= len(lines) {
		s.selectedLine = max(len(lines)-1, 0)
		s.selectedModel = 0
	}
	if len(lines) > 0 && s.selectedModel >= len(lines[s.selectedLine].Models) {
		s.selectedModel = 0
	}
}

// GetLines returns a copy of the production lines.
func (s *State) GetLines() []models.ProductionLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lines)
}

// GetLineCount returns the number of production lines.
func (s *State) GetLineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// GetModelCount returns the number of models across all lines.
func (s *State) GetModelCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.SumBy(s.lines, func(l models.ProductionLine) int { return len(l.Models) })
}

// GetLastUpdated returns the last time the lines were replaced.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Select stores the selected line and model indices.
func (s *State) Select(line, model int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedLine = line
	s.selectedModel = model
}

// Selected returns the selected line and model, if any.
func (s *State) Selected() (models.ProductionLine, models.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedLine < 0 || s.selectedLine >= len(s.lines) {
		return models.ProductionLine{}, models.Model{}, false
	}
	line := s.lines[s.selectedLine]
	if s.selectedModel < 0 || s.selectedModel >= len(line.Models) {
		return line, models.Model{}, false
	}
	return line, line.Models[s.selectedModel], true
}

// AddNotification adds a new notification and returns its ID. Only the
// newest maxNotifications are kept.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		Message:   message,
		CreatedAt: s.now(),
		Duration:  duration,
	}
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - maxNotifications; over > 0 {
		s.notifications = slices.Delete(s.notifications, 0, over)
	}
	return n.ID
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.active()
}

// GetNotifications returns a copy of the notifications that have not expired.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active()
}

func (s *State) active() []Notification {
	now := s.now()
	return lo.Reject(s.notifications, func(n Notification, _ int) bool {
		return n.expiredAt(now)
	})
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}

// SetLoadingNotification shows message in the single loading notification,
// creating it when needed.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.notifications, func(n Notification) bool {
		return n.ID == LoadingNotificationID
	}); i >= 0 {
		s.notifications[i].Message = message
		return
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: s.now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
