package app

import (
	"strconv"
	"testing"
	"time"

	"github.com/j-veylop/production-report-tui/internal/models"
)

func sampleLines() []models.ProductionLine {
	return []models.ProductionLine{
		{ID: "a", PlantName: "Line A", Models: []models.Model{{Name: "X"}, {Name: "Y"}}},
		{ID: "b", PlantName: "Line B", Models: []models.Model{{Name: "Z"}}},
	}
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetLineCount() != 0 {
		t.Error("Lines should be empty")
	}
	if !s.IsInitialLoading() {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading(ResourceLines, true)
	if got := s.GetLoadingResources(); len(got) != 2 || got[0] != ResourceInitial || got[1] != ResourceLines {
		t.Errorf("GetLoadingResources = %v, want [initial lines]", got)
	}

	s.SetLoading(ResourceLines, false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading(ResourceInitial, false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if resources := s.GetLoadingResources(); len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading(ResourceExport, true)
	if !s.IsExporting() {
		t.Error("IsExporting should be true")
	}
	resources := s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != ResourceExport {
		t.Errorf("GetLoadingResources should contain export, got %v", resources)
	}
}

func TestState_Lines(t *testing.T) {
	s := NewState()
	s.SetLines(sampleLines())

	if s.GetLineCount() != 2 {
		t.Errorf("GetLineCount = %d, want 2", s.GetLineCount())
	}
	if s.GetModelCount() != 3 {
		t.Errorf("GetModelCount = %d, want 3", s.GetModelCount())
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	lines := s.GetLines()
	lines[0].PlantName = "changed"
	if s.GetLines()[0].PlantName != "Line A" {
		t.Error("GetLines should return a copy")
	}
}

func TestState_Selection(t *testing.T) {
	s := NewState()
	if _, _, ok := s.Selected(); ok {
		t.Error("Selected on empty state should be false")
	}

	s.SetLines(sampleLines())
	s.Select(0, 1)
	line, model, ok := s.Selected()
	if !ok || line.ID != "a" || model.Name != "Y" {
		t.Errorf("Selected() = %s/%s/%v, want a/Y/true", line.ID, model.Name, ok)
	}

	s.Select(1, 0)
	s.SetLines(sampleLines()[:1])
	line, model, ok = s.Selected()
	if !ok || line.ID != "a" || model.Name != "X" {
		t.Errorf("after shrinking Selected() = %s/%s/%v, want a/X/true", line.ID, model.Name, ok)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "Test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "Test" {
		t.Fatalf("GetNotifications = %v", notifs)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}

	for i := range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, strconv.Itoa(i), time.Minute)
	}
	notifs = s.GetNotifications()
	if len(notifs) != maxNotifications {
		t.Errorf("notifications = %d, want %d", len(notifs), maxNotifications)
	}
	if notifs[0].Message != "5" {
		t.Errorf("oldest kept notification = %q, want 5", notifs[0].Message)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications failed")
	}
}

func TestState_ExpiredNotifications(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s := NewState()
	s.now = func() time.Time { return now }
	s.AddNotification(NotificationInfo, "short", time.Second)
	s.AddNotification(NotificationInfo, "sticky", 0)
	now = now.Add(2 * time.Second)

	s.ClearExpiredNotifications()
	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "sticky" {
		t.Errorf("notifications = %v, want only sticky", notifs)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Still loading...")

	notifs := s.GetNotifications()
	if len(notifs) != 1 || notifs[0].Message != "Still loading..." || notifs[0].Type != NotificationLoading {
		t.Fatalf("notifications = %+v", notifs)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		nt   NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.nt.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
