package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verhoek/huescout/internal/config"
	"github.com/verhoek/huescout/internal/discovery"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenScan   Screen = "scan"
	ScreenDetail Screen = "detail"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	ScanModel   ScanModel
	DetailModel DetailModel

	// Shared application state
	Coordinator    *discovery.Coordinator
	Registry       *config.Registry
	SelectedBridge *discovery.Bridge

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the application model. The registry may be nil, in
// which case the detail screen simply skips nickname persistence.
func NewAppModel(coordinator *discovery.Coordinator, registry *config.Registry) AppModel {
	timeout := discovery.DefaultDiscoverTimeout
	if registry != nil && registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0 {
		timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}

	return AppModel{
		CurrentScreen: ScreenScan,
		Coordinator:   coordinator,
		Registry:      registry,
		ScanModel:     NewScanModel(coordinator, timeout),
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.ScanModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.ScanModel.Width = msg.Width
		m.ScanModel.Height = msg.Height
		m.DetailModel.Width = msg.Width
		m.DetailModel.Height = msg.Height

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			if m.Coordinator.Running() {
				m.Coordinator.Stop()
			}
			return m, tea.Quit
		}
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenScan:
		updated, c := m.ScanModel.Update(msg)
		m.ScanModel = updated.(ScanModel)
		cmd = c

		// On selection, move to the detail screen for the chosen bridge
		if m.ScanModel.Selected {
			m.ScanModel.Selected = false
			if bridge := m.ScanModel.GetSelectedBridge(); bridge != nil {
				m.SelectedBridge = bridge
				return m.transitionTo(ScreenDetail)
			}
		}

	case ScreenDetail:
		updated, c := m.DetailModel.Update(msg)
		m.DetailModel = updated.(DetailModel)
		cmd = c

		// Back returns to scan results without starting a new scan
		if m.DetailModel.BackRequested {
			m.DetailModel.BackRequested = false
			m.PreviousScreen = m.CurrentScreen
			m.CurrentScreen = ScreenScan
			return m, nil
		}
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenScan:
		m.ScanModel = NewScanModel(m.Coordinator, m.ScanModel.Timeout)
		m.ScanModel.Width = m.Width
		m.ScanModel.Height = m.Height
		cmd = m.ScanModel.Init()

	case ScreenDetail:
		if m.SelectedBridge != nil {
			m.DetailModel = NewDetailModel(*m.SelectedBridge, m.Registry)
			m.DetailModel.Width = m.Width
			m.DetailModel.Height = m.Height
			cmd = m.DetailModel.Init()
		}
	}

	return m, cmd
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenScan:
		return m.ScanModel.View()
	case ScreenDetail:
		return m.DetailModel.View()
	default:
		return "Unknown screen"
	}
}
