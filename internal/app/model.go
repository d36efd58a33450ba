// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/production-report-tui/internal/export"
	"github.com/j-veylop/production-report-tui/internal/services"
	"github.com/j-veylop/production-report-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabPlants lists production lines with a chart preview.
	TabPlants TabID = iota
	// TabEditor edits the daily values of one model.
	TabEditor
	// TabExport builds reports and workbooks.
	TabExport
	// TabInfo shows configuration, metrics and version.
	TabInfo
)

var tabNames = []string{"Plants", "Editor", "Export", "Info"}

// String returns the string representation of the TabID.
func (t TabID) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by tabs that take free text input. While
// Capturing returns true, global key bindings other than ctrl+c go to the tab.
type InputCapturer interface {
	Capturing() bool
}

// KeyMap holds the bindings the root model handles before any tab sees a key.
type KeyMap struct {
	// Tabs is indexed by TabID.
	Tabs    []key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
	Close   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload lines")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close help")),
	}
	for i, name := range tabNames {
		n := strconv.Itoa(i + 1)
		km.Tabs = append(km.Tabs, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(name))))
	}
	return km
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append(slices.Clone(k.Tabs), k.NextTab, k.PrevTab),
		{k.Refresh, k.Help, k.Close, k.Quit},
	}
}

// Styles groups the styles of the application chrome. Tab content is
// styled by the tabs themselves.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Toast text, by notification type.
	Notification map[NotificationType]lipgloss.Style

	Content   lipgloss.Style
	Spinner   lipgloss.Style
	Toast     lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles derives the chrome styles from the shared palette.
func DefaultStyles() Styles {
	return Styles{
		TabBar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Subtle),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(styles.TextMuted).Padding(0, 2),
		Notification: map[NotificationType]lipgloss.Style{
			NotificationSuccess: styles.SuccessTextStyle.Padding(0, 1),
			NotificationError:   styles.ErrorTextStyle.Bold(true).Padding(0, 1),
			NotificationWarning: styles.WarningTextStyle.Padding(0, 1),
			NotificationInfo:    styles.InfoTextStyle.Padding(0, 1),
			NotificationLoading: styles.InfoTextStyle.Padding(0, 1),
		},
		Content:   lipgloss.NewStyle().Padding(1, 2),
		Spinner:   lipgloss.NewStyle().Foreground(styles.Primary),
		Toast:     styles.ToastStyle,
		Title:     styles.TitleStyle.MarginBottom(0),
		Subtle:    styles.HelpStyle,
		Highlight: styles.SubTitleStyle,
	}
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabPlants,
		tabs:      make([]Tab, len(tabNames)), // set by SetTabs
		state:     NewState(),
		services:  mgr,
		commands:  NewCommands(mgr),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetCommands returns the commands helper.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading production lines...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		cmds = append(cmds, loadLinesCmd(m.services))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if handled {
			return m, cmd
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case LinesLoadedMsg:
		cmds = append(cmds, m.handleLinesLoaded(msg))
	case RefreshMsg:
		cmds = append(cmds, m.refresh())
	case EditModelMsg:
		m.switchTab(TabEditor)
	case CommitEditMsg:
		if m.services != nil {
			cmds = append(cmds, commitEditCmd(m.services, msg))
		}
	case EditCommittedMsg:
		cmds = append(cmds, m.handleEditCommitted(msg))
	case ExportRequestMsg:
		cmds = append(cmds, m.handleExportRequest(msg))
	case ExportResultMsg:
		cmds = append(cmds, m.handleExportResult(msg))
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case StartLoadingMsg:
		m.state.SetLoading(msg.Resource, true)
		m.state.SetLoadingNotification("Refreshing...")
	case StopLoadingMsg:
		m.stopLoading(msg.Resource)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("%s: %v", msg.Context, msg.Error)))
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) refresh() tea.Cmd {
	if m.services == nil {
		return nil
	}
	m.state.SetLoading(ResourceLines, true)
	m.state.SetLoadingNotification("Refreshing...")
	return loadLinesCmd(m.services)
}

func (m *Model) handleLinesLoaded(msg LinesLoadedMsg) tea.Cmd {
	m.stopLoading(ResourceInitial)
	m.stopLoading(ResourceLines)
	if msg.Err != nil {
		return notifyErrorCmd(fmt.Sprintf("Failed to load production lines: %v", msg.Err))
	}
	m.state.SetLines(msg.Lines)
	return nil
}

func (m *Model) handleEditCommitted(msg EditCommittedMsg) tea.Cmd {
	switch {
	case msg.Err != nil:
		return notifyErrorCmd(fmt.Sprintf("Failed to save %s: %v", msg.Model, msg.Err))
	case !msg.Result.Changed:
		return notifyInfoCmd("No changes to save")
	case msg.Result.Deleted:
		return notifySuccessCmd(fmt.Sprintf("Cleared the month of %s", msg.Model))
	default:
		return notifySuccessCmd(fmt.Sprintf("Saved %s", msg.Model))
	}
}

func (m *Model) handleExportRequest(msg ExportRequestMsg) tea.Cmd {
	if m.services == nil {
		return nil
	}
	if m.state.IsExporting() {
		return notifyWarningCmd("An export is already running")
	}
	m.state.SetLoading(ResourceExport, true)
	m.state.SetLoadingNotification(fmt.Sprintf("Exporting %s %s...", strings.ToUpper(string(msg.Format)), msg.Window))
	return exportCmd(m.services, msg.Window, msg.Format)
}

func (m *Model) handleExportResult(msg ExportResultMsg) tea.Cmd {
	m.stopLoading(ResourceExport)
	switch {
	case errors.Is(msg.Err, export.ErrNoData):
		return notifyWarningCmd("No production data for the selected period")
	case msg.Err != nil:
		return notifyErrorCmd(fmt.Sprintf("Export failed: %v", msg.Err))
	default:
		return notifySuccessCmd(exportDoneMessage(msg))
	}
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.LinesChangedEvent:
		m.state.SetLines(e.Lines)
	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) switchTab(tab TabID) {
	if tab < 0 || int(tab) >= len(m.tabs) {
		return
	}
	m.activeTab = tab
	m.updateTabSizes()
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) capturing() bool {
	if int(m.activeTab) >= len(m.tabs) || m.tabs[m.activeTab] == nil {
		return false
	}
	c, ok := m.tabs[m.activeTab].(InputCapturer)
	return ok && c.Capturing()
}

// handleKeyMsg handles global key bindings. It reports false when the key
// should go to the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit, true
	}
	if m.capturing() {
		return nil, false
	}

	for i, binding := range m.keymap.Tabs {
		if key.Matches(msg, binding) {
			m.switchTab(TabID(i))
			return nil, true
		}
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp && len(m.tabs) > 0 {
			m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}
		return nil, true

	case key.Matches(msg, m.keymap.Refresh):
		return m.refresh(), true

	case key.Matches(msg, m.keymap.Close):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}
	}

	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-lipgloss.Width(overlay))/2, 0)
	overlayWidth := lipgloss.Width(overlay)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	if m.state.IsExporting() {
		tabs = append(tabs, m.styles.Spinner.Render(m.spinner.View()+" exporting"))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	prefixes := map[NotificationType]string{
		NotificationSuccess: "[OK]",
		NotificationError:   "[ERR]",
		NotificationWarning: "[WARN]",
		NotificationInfo:    "[INFO]",
		NotificationLoading: m.spinner.View(),
	}

	var toasts []string
	for _, n := range notifications {
		content := m.styles.Notification[n.Type].Render(prefixes[n.Type] + " " + n.Message)
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		if w := lipgloss.Width(mainLine); w < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-w) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	type section struct {
		title    string
		bindings []key.Binding
	}
	groups := m.keymap.FullHelp()
	sections := []section{{"Navigation", groups[0]}, {"Actions", groups[1]}}
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		sections = append(sections, section{m.activeTab.String() + " Tab", m.tabs[m.activeTab].ShortHelp()})
	}

	lines := []string{m.styles.Title.Render("Keyboard Shortcuts")}
	for _, sec := range sections {
		if len(sec.bindings) == 0 {
			continue
		}
		lines = append(lines, "", m.styles.Highlight.Render(sec.title))
		for _, b := range sec.bindings {
			lines = append(lines, fmt.Sprintf("  %s %s",
				styles.HelpKeyStyle.Render(fmt.Sprintf("%-10s", b.Help().Key)),
				styles.HelpDescStyle.Render(b.Help().Desc)))
		}
	}
	lines = append(lines, "", m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
