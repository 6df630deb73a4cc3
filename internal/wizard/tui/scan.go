package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verhoek/huescout/internal/bridgeapi"
	"github.com/verhoek/huescout/internal/discovery"
	"github.com/verhoek/huescout/internal/urls"
)

// scanTickInterval drives the progress bar and probe phase label while a
// scan is in flight
const scanTickInterval = 200 * time.Millisecond

// Messages for async operations
type scanStartMsg struct{}
type scanTickMsg time.Time
type scanCompleteMsg struct {
	bridges []discovery.Bridge
	reason  string
}
type manualCheckMsg struct {
	bridge *discovery.Bridge
	err    error
}

// scanKeyMap defines key bindings for the results view
type scanKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k scanKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k scanKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual IP entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Confirm, m.Cancel},
	}
}

// scanningKeyMap defines key bindings while a scan is running
type scanningKeyMap struct {
	Stop   key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Stop, s.Manual, s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Stop, s.Manual, s.Quit},
	}
}

// emptyScreenKeyMap defines key bindings for the empty results screen
type emptyScreenKeyMap struct {
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (e emptyScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{e.Rescan, e.Manual, e.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (e emptyScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{e.Rescan, e.Manual, e.Quit},
	}
}

// bridgeItem wraps a Bridge for use with bubbles/list
type bridgeItem struct {
	bridge discovery.Bridge
}

// Implement list.Item interface
func (b bridgeItem) FilterValue() string {
	// Filter by name, ID, or IP
	return b.bridge.Name + " " + b.bridge.NormalizedID + " " + b.bridge.IP
}

// Title returns the bridge name for list display
func (b bridgeItem) Title() string {
	if b.bridge.Name != "" {
		return b.bridge.Name
	}
	return "Hue Bridge"
}

// Description returns bridge details for list display
func (b bridgeItem) Description() string {
	return fmt.Sprintf("%s:%d • %s", b.bridge.IP, b.bridge.Port, b.bridge.Source)
}

// bridgeDelegate is a custom list delegate for rendering bridge cards
type bridgeDelegate struct {
	width int
}

func (d bridgeDelegate) Height() int { return 8 } // Card height including borders

func (d bridgeDelegate) Spacing() int { return 1 } // Spacing between cards

func (d bridgeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d bridgeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(bridgeItem)
	if !ok {
		return
	}

	bridge := bi.bridge
	selected := index == m.Index()

	name := bridge.Name
	if name == "" {
		name = "Hue Bridge"
	}

	id := bridge.NormalizedID
	if id == "" {
		id = "(unknown)"
	}

	// Build content lines
	var content strings.Builder

	// Add selection indicator to the bridge name
	if selected {
		nameStyle := lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
		content.WriteString(nameStyle.Render("→ " + name))
	} else {
		content.WriteString("  " + name)
	}
	content.WriteString("\n\n")

	// Bridge details
	content.WriteString(fmt.Sprintf("  Bridge ID: %s\n", id))
	content.WriteString(fmt.Sprintf("  Address:   %s:%d\n", bridge.IP, bridge.Port))

	sourceStyle := lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	content.WriteString(fmt.Sprintf("  Found via: %s", sourceStyle.Render(bridge.Source)))

	// Create responsive card style
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	// Calculate card width (leave room for margins and borders)
	cardWidth := d.width - 6 // 2 for margin-left, 4 for border + padding
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	// Highlight selected card
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// ScanModel represents the bridge scan screen state
type ScanModel struct {
	// Discovery state
	Coordinator *discovery.Coordinator
	Timeout     time.Duration
	Scanning    bool
	Reason      string
	BridgeList  list.Model
	Selected    bool

	// Manual IP entry state
	ManualMode  bool
	IPInput     textinput.Model
	ManualErr   error
	Checking    bool
	CheckingIP  string

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          scanKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap
	EmptyKeys     emptyScreenKeyMap
}

// NewScanModel creates a new scan screen model. The coordinator's probe
// order determines the phase labels shown while scanning.
func NewScanModel(coordinator *discovery.Coordinator, timeout time.Duration) ScanModel {
	if timeout <= 0 {
		timeout = discovery.DefaultDiscoverTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	// Initialize IP input
	ipInput := textinput.New()
	ipInput.Placeholder = "192.168.1.2"
	ipInput.CharLimit = 21 // room for host:port
	ipInput.Width = 30

	// Initialize progress bar
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	// Initialize bridge list with custom delegate
	delegate := bridgeDelegate{width: MinTerminalWidth}
	bridgeList := list.New([]list.Item{}, delegate, 0, 0)
	bridgeList.Title = "Discovered Bridges"
	bridgeList.SetShowStatusBar(false)
	bridgeList.SetFilteringEnabled(true)
	bridgeList.Styles.Title = TitleStyle

	// Initialize help
	h := help.New()

	// Initialize key bindings for the results view
	keys := scanKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "details"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual IP"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for manual entry mode
	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "check"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	// Initialize key bindings for scanning mode
	scanningKeys := scanningKeyMap{
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop scan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual IP"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	// Initialize key bindings for empty results
	emptyKeys := emptyScreenKeyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual IP"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return ScanModel{
		Coordinator:  coordinator,
		Timeout:      timeout,
		Scanning:     false,
		BridgeList:   bridgeList,
		Selected:     false,
		ManualMode:   false,
		IPInput:      ipInput,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         h,
		Keys:         keys,
		ManualKeys:   manualKeys,
		ScanningKeys: scanningKeys,
		EmptyKeys:    emptyKeys,
	}
}

// Init initializes the scan model
func (m ScanModel) Init() tea.Cmd {
	// Start scanning immediately - send start message then begin the scan
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.startScan(),
		m.Spinner.Tick,
		scanTick(),
	)
}

// startScan returns a command that runs the full discovery waterfall and
// delivers the outcome as a scanCompleteMsg. A second scan started while
// one is running comes back immediately with the busy reason; the UI
// guards against that by only starting scans from idle states.
func (m ScanModel) startScan() tea.Cmd {
	coordinator := m.Coordinator
	timeout := m.Timeout
	return func() tea.Msg {
		bridges, reason := coordinator.DiscoverWithReason(context.Background(), timeout)
		return scanCompleteMsg{bridges: bridges, reason: reason}
	}
}

// scanTick schedules the next progress refresh
func scanTick() tea.Cmd {
	return tea.Tick(scanTickInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// checkManualAddress returns a command that verifies a user-entered
// address actually answers like a Hue bridge before adding it to the list
func checkManualAddress(addr string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeapi.IdentifyTimeout)
		defer cancel()

		config, ok := bridgeapi.Identify(ctx, addr)
		if !ok {
			return manualCheckMsg{err: fmt.Errorf("no Hue bridge answered at %s", addr)}
		}

		host, port := splitManualAddress(addr)
		bridge := &discovery.Bridge{
			ID:           config.BridgeID,
			NormalizedID: discovery.NormalizeID(config.BridgeID),
			Name:         config.Name,
			IP:           host,
			Port:         port,
			Source:       "manual",
			DiscoveredAt: time.Now(),
		}
		return manualCheckMsg{bridge: bridge}
	}
}

// splitManualAddress splits a user-entered "host" or "host:port" string
func splitManualAddress(addr string) (string, int) {
	host := addr
	port := discovery.DefaultPort
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
		if p := addr[i+1:]; p != "" {
			fmt.Sscanf(p, "%d", &port)
		}
	}
	return host, port
}

// Update handles messages and updates the model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Update list size
		m.BridgeList.SetWidth(msg.Width - 4)
		m.BridgeList.SetHeight(msg.Height - 10) // Leave room for header/footer

	case scanStartMsg:
		m.Scanning = true
		m.Reason = ""
		m.ScanStartTime = time.Now()

	case scanTickMsg:
		if m.Scanning {
			return m, scanTick()
		}

	case scanCompleteMsg:
		m.Scanning = false
		m.Reason = msg.reason
		// Convert bridges to list items
		items := make([]list.Item, len(msg.bridges))
		for i, bridge := range msg.bridges {
			items[i] = bridgeItem{bridge: bridge}
		}
		m.BridgeList.SetItems(items)

	case manualCheckMsg:
		m.Checking = false
		m.ManualErr = msg.err
		if msg.bridge != nil {
			// Prepend the verified bridge and select it
			newItem := bridgeItem{bridge: *msg.bridge}
			items := append([]list.Item{newItem}, m.BridgeList.Items()...)
			m.BridgeList.SetItems(items)
			m.BridgeList.Select(0)
			m.ManualMode = false
			m.IPInput.SetValue("")
			m.IPInput.Blur()
		}

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Update list if not in manual mode or scanning
	if !m.ManualMode && !m.Scanning {
		m.BridgeList, cmd = m.BridgeList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in the results and scanning views
func (m ScanModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.Scanning {
			// Release the waterfall before the program exits
			m.Coordinator.Stop()
		}
		return m, tea.Quit

	case "s":
		if m.Scanning {
			// Stop the running scan; partial results arrive via scanCompleteMsg
			m.Coordinator.Stop()
		}

	case "enter", " ":
		if m.Scanning {
			return m, nil
		}
		// Get selected bridge from list
		if selectedItem := m.BridgeList.SelectedItem(); selectedItem != nil {
			m.Selected = true
		}

	case "r":
		if m.Scanning {
			return m, nil
		}
		// Rescan
		m.BridgeList.SetItems([]list.Item{})
		m.Reason = ""
		return m, tea.Batch(
			func() tea.Msg { return scanStartMsg{} },
			m.startScan(),
			m.Spinner.Tick,
			scanTick(),
		)

	case "m":
		// Switch to manual IP entry mode
		m.ManualMode = true
		m.ManualErr = nil
		m.IPInput.SetValue("")
		m.IPInput.Focus()
	}

	// Let the list handle up/down navigation
	return m, nil
}

// updateManualMode handles keyboard input in manual IP entry mode
func (m ScanModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		// Cancel manual entry
		m.ManualMode = false
		m.ManualErr = nil
		m.IPInput.SetValue("")
		m.IPInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.IPInput.Value())
		if value != "" && !m.Checking {
			m.Checking = true
			m.CheckingIP = value
			m.ManualErr = nil
			return m, tea.Batch(checkManualAddress(value), m.Spinner.Tick)
		}
		return m, nil
	}

	// Update the text input
	m.IPInput, cmd = m.IPInput.Update(msg)
	return m, cmd
}

// View renders the scan screen
func (m ScanModel) View() string {
	// Use default width if not set
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	// Build main content area
	var content string
	if m.ManualMode {
		content = m.renderManualEntry()
	} else if m.Scanning {
		content = m.renderScanning(width)
	} else {
		content = m.renderScanResults()
	}

	// Determine context-sensitive help text using bubbles/help
	var helpText string
	if m.ManualMode {
		helpText = m.Help.View(m.ManualKeys)
	} else if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else if len(m.BridgeList.Items()) > 0 {
		helpText = m.Help.View(m.Keys)
	} else {
		helpText = m.Help.View(m.EmptyKeys)
	}

	// Wrap with application container (full-screen layout with height)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// probePhase returns a label for the probe currently running, taken from
// the live discovery session
func (m ScanModel) probePhase() string {
	sess := m.Coordinator.Session()
	if sess == nil {
		return "starting"
	}
	index := sess.ProbeIndex()
	probes := m.Coordinator.Probes()
	if index < 0 || index >= len(probes) {
		return "starting"
	}
	return fmt.Sprintf("%s (%d/%d)", probes[index].Name(), index+1, len(probes))
}

// renderScanning renders a prominent, centered scanning progress display
func (m ScanModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	elapsedSec := int(elapsed.Seconds())

	// Progress against the overall discovery deadline
	progressFloat := elapsed.Seconds() / m.Timeout.Seconds()
	if progressFloat > 1.0 {
		progressFloat = 1.0
	}

	// Build content components
	title := fmt.Sprintf("%s SEARCHING FOR HUE BRIDGES", m.Spinner.View())
	subtitle := "Trying discovery methods in order of speed..."
	phase := fmt.Sprintf("Current method: %s", m.probePhase())

	// Use bubbles/progress component (ViewAs already includes percentage display)
	progressBar := m.ProgressBar.ViewAs(progressFloat)
	elapsedText := fmt.Sprintf("Elapsed: %ds of %ds", elapsedSec, int(m.Timeout.Seconds()))

	// Use lipgloss.JoinVertical for layout composition
	content := lipgloss.JoinVertical(lipgloss.Center,
		"", // Top spacing
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		StatusBarStyle.Render(phase),
		"",
		progressBar,
		"",
		SubtitleStyle.Render(elapsedText),
		"", // Bottom spacing
	)

	// Use lipgloss.Place for centering (not manual padding!)
	// Height = 0 means "no vertical constraint" - let content determine height
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// renderScanResults renders the bridge list or a "no bridges found" message
func (m ScanModel) renderScanResults() string {
	var b strings.Builder

	b.WriteString("\n")

	if len(m.BridgeList.Items()) == 0 {
		// No bridges found
		switch m.Reason {
		case discovery.ReasonStopped:
			b.WriteString(WarningBoxStyle.Render("Scan stopped before any bridge was found"))
		case discovery.ReasonTimeout:
			b.WriteString(WarningBoxStyle.Render("Scan timed out without finding a bridge"))
		default:
			warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
			b.WriteString("  ")
			b.WriteString(warningStyle.Render("⚠ No Hue bridges found on your network"))
		}
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the bridge is powered on and its LEDs are lit\n")
		b.WriteString("    • Check that this computer is on the same network\n")
		b.WriteString("    • Try entering the bridge IP manually (press 'm')\n")
		b.WriteString("    • More help: " + urls.TroubleshootingGuide + "\n")
		b.WriteString("\n")

	} else {
		// Bridges found - summary line then the list
		count := len(m.BridgeList.Items())
		plural := "bridges"
		if count == 1 {
			plural = "bridge"
		}
		b.WriteString(RenderSuccess(fmt.Sprintf("Found %d %s", count, plural)))
		b.WriteString("\n")
		b.WriteString(m.BridgeList.View())
	}

	return b.String()
}

// renderManualEntry renders the manual IP entry dialog
func (m ScanModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString(RenderSubtitle("Enter bridge address (IP or IP:port)"))
	b.WriteString("\n\n")

	// Input box using textinput component
	b.WriteString("  Address: ")
	b.WriteString(m.IPInput.View())
	b.WriteString("\n\n")

	if m.Checking {
		b.WriteString(SpinnerStyle.Render(fmt.Sprintf("  %s Checking %s...", m.Spinner.View(), m.CheckingIP)))
		b.WriteString("\n")
	} else if m.ManualErr != nil {
		b.WriteString(RenderError(m.ManualErr.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

// GetSelectedBridge returns the selected bridge (if any)
func (m ScanModel) GetSelectedBridge() *discovery.Bridge {
	if m.Selected {
		if selectedItem := m.BridgeList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(bridgeItem); ok {
				bridge := item.bridge
				return &bridge
			}
		}
	}
	return nil
}
