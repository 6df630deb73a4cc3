package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verhoek/huescout/internal/bridgeapi"
	"github.com/verhoek/huescout/internal/config"
	"github.com/verhoek/huescout/internal/discovery"
)

// Message types for async operations
type configLoadedMsg struct {
	config *bridgeapi.Config
	err    error
}

// detailKeyMap defines key bindings for the detail screen
type detailKeyMap struct {
	Refresh  key.Binding
	Nickname key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k detailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Nickname, k.Back, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k detailKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Nickname},
		{k.Back, k.Help, k.Quit},
	}
}

// DetailModel represents the bridge detail screen. It fetches the open
// /api/config surface of the selected bridge and lets the user attach a
// local nickname that persists in the registry.
type DetailModel struct {
	// Bridge connection
	Bridge discovery.Bridge
	Client *bridgeapi.Client

	// Registry for nickname persistence (nil when no registry is available)
	Registry *config.Registry

	// Fetch state
	Loading bool
	Config  *bridgeapi.Config
	Err     error

	// Nickname editing state
	EditingNickname bool
	NicknameInput   textinput.Model
	SaveErr         error

	// UI state
	Width       int
	Height      int
	Spinner     spinner.Model
	ShowingHelp bool
	Help        help.Model
	Keys        detailKeyMap

	// Navigation results
	BackRequested bool
}

// NewDetailModel creates a detail screen for the given bridge
func NewDetailModel(bridge discovery.Bridge, registry *config.Registry) DetailModel {
	client := bridgeapi.NewClient(bridge.IP, bridge.Port)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	nicknameInput := textinput.New()
	nicknameInput.Placeholder = "e.g. Living room"
	nicknameInput.CharLimit = 40
	nicknameInput.Width = 40

	h := help.New()

	keys := detailKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Nickname: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "nickname"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return DetailModel{
		Bridge:        bridge,
		Client:        client,
		Registry:      registry,
		Loading:       true,
		NicknameInput: nicknameInput,
		Spinner:       s,
		Help:          h,
		Keys:          keys,
	}
}

// Init starts the config fetch
func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(m.fetchConfig(), m.Spinner.Tick)
}

// fetchConfig returns a command that fetches /api/config from the bridge
func (m DetailModel) fetchConfig() tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeapi.DefaultTimeout)
		defer cancel()

		cfg, err := client.GetConfig(ctx)
		return configLoadedMsg{config: cfg, err: err}
	}
}

// Update handles messages and updates the model
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case configLoadedMsg:
		m.Loading = false
		m.Config = msg.config
		m.Err = msg.err
		if msg.err == nil && msg.config != nil && m.Registry != nil {
			// Remember where this bridge was last seen so later scans can
			// try the address directly
			m.Registry.RecordBridge(msg.config.BridgeID, m.Bridge.IP, m.Bridge.Port)
			m.SaveErr = config.SaveGlobal()
		}

	case spinner.TickMsg:
		if m.Loading {
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.ShowingHelp {
			// Any key dismisses the help overlay
			m.ShowingHelp = false
			return m, nil
		}
		if m.EditingNickname {
			return m.updateNicknameEditor(msg)
		}
		return m.updateNormalMode(msg)
	}

	return m, nil
}

// updateNormalMode handles keyboard input when nothing is being edited
func (m DetailModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		m.BackRequested = true
		return m, nil

	case "r":
		m.Loading = true
		m.Err = nil
		return m, tea.Batch(m.fetchConfig(), m.Spinner.Tick)

	case "n":
		if m.Config != nil && m.Registry != nil {
			m.EditingNickname = true
			m.NicknameInput.SetValue(m.currentNickname())
			m.NicknameInput.Focus()
		}

	case "?":
		m.ShowingHelp = true
	}

	return m, nil
}

// updateNicknameEditor handles keyboard input while the nickname field is open
func (m DetailModel) updateNicknameEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c", "esc":
		m.EditingNickname = false
		m.NicknameInput.Blur()
		return m, nil

	case "enter":
		nickname := strings.TrimSpace(m.NicknameInput.Value())
		m.Registry.SetBridgeNickname(m.Config.BridgeID, nickname)
		m.SaveErr = config.SaveGlobal()
		m.EditingNickname = false
		m.NicknameInput.Blur()
		return m, nil
	}

	m.NicknameInput, cmd = m.NicknameInput.Update(msg)
	return m, cmd
}

// currentNickname returns the stored nickname for this bridge, if any
func (m DetailModel) currentNickname() string {
	if m.Registry == nil || m.Config == nil {
		return ""
	}
	if entry := m.Registry.GetBridge(m.Config.BridgeID); entry != nil {
		return entry.Nickname
	}
	return ""
}

// View renders the detail screen
func (m DetailModel) View() string {
	var content string
	switch {
	case m.Loading:
		content = m.renderLoading()
	case m.Err != nil:
		content = m.renderError()
	default:
		content = m.renderConfig()
	}

	helpText := m.Help.View(m.Keys)
	base := RenderApplicationContainer(content, helpText, m.Width, m.Height)

	if m.ShowingHelp {
		return RenderModal(base, m.renderHelpModal(), m.Width, m.Height)
	}
	return base
}

// renderLoading renders the fetch-in-progress state
func (m DetailModel) renderLoading() string {
	status := fmt.Sprintf("%s Fetching configuration from %s:%d...",
		m.Spinner.View(), m.Bridge.IP, m.Bridge.Port)

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		"  "+SpinnerStyle.Render(status),
		"",
	)
}

// renderError renders a failed fetch with a troubleshooting hint
func (m DetailModel) renderError() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(ErrorBoxStyle.Render(fmt.Sprintf("Could not reach bridge at %s:%d\n\n%s",
		m.Bridge.IP, m.Bridge.Port, bridgeapi.GetShortErrorMessage(m.Err))))
	b.WriteString("\n\n")

	if hint := bridgeapi.GetTroubleshootingHint(m.Err); hint != "" {
		b.WriteString(RenderInfo(hint))
		b.WriteString("\n")
	}
	b.WriteString(RenderHelp("  Press 'r' to retry or 'esc' to go back"))

	return b.String()
}

// renderConfig renders the fetched bridge configuration, sectioned the
// same way as the CLI's detailed formatter
func (m DetailModel) renderConfig() string {
	c := m.Config

	title := c.Name
	if nickname := m.currentNickname(); nickname != "" {
		title = fmt.Sprintf("%s (%s)", nickname, c.Name)
	}

	var sections []string
	sections = append(sections, RenderTitle(title))

	sections = append(sections, m.renderSection("BRIDGE", [][2]string{
		{"Bridge ID", c.BridgeID},
		{"Model", c.ModelID},
		{"MAC Address", c.Mac},
		{"Address", fmt.Sprintf("%s:%d", m.Bridge.IP, m.Bridge.Port)},
		{"Found via", m.Bridge.Source},
	}))

	software := [][2]string{
		{"Firmware", c.SWVersion},
		{"API Version", c.APIVersion},
	}
	if c.DatastoreVersion != "" {
		software = append(software, [2]string{"Datastore", c.DatastoreVersion})
	}
	sections = append(sections, m.renderSection("SOFTWARE", software))

	if c.FactoryNew || c.ReplacesBridgeID != "" {
		var rows [][2]string
		if c.FactoryNew {
			rows = append(rows, [2]string{"Factory New", "yes (never configured)"})
		}
		if c.ReplacesBridgeID != "" {
			rows = append(rows, [2]string{"Replaces", c.ReplacesBridgeID + " (restored from backup)"})
		}
		sections = append(sections, m.renderSection("PROVISIONING", rows))
	}

	if m.EditingNickname {
		sections = append(sections, m.renderNicknameEditor())
	} else {
		nickname := m.currentNickname()
		if nickname == "" {
			nickname = "(none - press 'n' to set)"
		}
		rows := [][2]string{{"Local Name", nickname}}
		if m.Registry != nil {
			if entry := m.Registry.GetBridge(c.BridgeID); entry != nil {
				rows = append(rows, [2]string{"Last Seen", lastSeenLabel(entry.LastSeen)})
			}
		}
		sections = append(sections, m.renderSection("REGISTRY", rows))
	}

	if m.SaveErr != nil {
		sections = append(sections, RenderError(fmt.Sprintf("could not save registry: %v", m.SaveErr)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSection renders a title plus label/value rows
func (m DetailModel) renderSection(title string, rows [][2]string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(SubtleColor)

	parts := []string{titleStyle.Render(title)}
	for _, row := range rows {
		line := lipgloss.JoinHorizontal(lipgloss.Left,
			"  ",
			labelStyle.Render(row[0]),
			row[1],
		)
		parts = append(parts, line)
	}
	parts = append(parts, "")

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderNicknameEditor renders the inline nickname editor
func (m DetailModel) renderNicknameEditor() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		FocusedInputStyle.Render("Nickname"),
		m.NicknameInput.View(),
		BlurredInputStyle.Render("enter save • esc cancel"),
	)
	return InlineEditorStyle().Render(content)
}

// renderHelpModal renders the full-screen help overlay
func (m DetailModel) renderHelpModal() string {
	titleStyle := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(TextColor)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("BRIDGE DETAILS - HELP"),
		"",
		rowStyle.Render("  r    refresh configuration from the bridge"),
		rowStyle.Render("  n    set a local nickname for this bridge"),
		rowStyle.Render("  esc  back to scan results"),
		rowStyle.Render("  q    quit"),
		"",
		BlurredInputStyle.Render("  press any key to close"),
	)

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(SafeModalWidth(60, m.Width))

	return modalStyle.Render(content)
}

// lastSeenLabel formats a registry timestamp for display
func lastSeenLabel(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}
