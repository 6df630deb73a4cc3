// Package tui implements the interactive terminal interface for huescout.
//
// This package provides a full-screen TUI for finding Hue bridges on the
// local network and inspecting the configuration they expose. Built using
// the Bubble Tea framework, it follows the Elm architecture with immutable
// state updates and a clean Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into two screens:
//   - Scan: Runs the discovery waterfall and lists found bridges
//   - Detail: Fetches and displays one bridge's /api/config surface
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area, and context-sensitive
// footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: Loading indicators
//   - bubbles/textinput: Manual IP entry and nickname editing
//   - bubbles/progress: Progress bar against the discovery deadline
//   - bubbles/list: Bridge cards with filtering
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	coordinator := discovery.NewCoordinator(probes.DefaultProbes(registry.KnownAddresses)...)
//	app := tui.NewAppModel(coordinator, registry)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
// The typical user flow:
//
//  1. Scan Screen:
//     - Starts the discovery waterfall immediately
//     - Shows which probe is currently running and time remaining
//     - Displays found bridges as cards (name, ID, address, source)
//     - Manual IP entry verifies the address before listing it
//     - 's' stops a running scan; partial results are kept
//
//  2. Detail Screen:
//     - Fetches the bridge's unauthenticated configuration
//     - Shows bridge, software, and provisioning sections
//     - 'n' attaches a local nickname that persists in the registry
//     - 'r' refetches, ESC returns to the scan results
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Scan (running): s stop, m manual IP, q quit
//   - Scan (results): ↑/↓ navigate, Enter details, r rescan, m manual IP, q quit
//   - Detail: r refresh, n nickname, esc back, ? help, q quit
//
// Help text automatically updates based on screen state.
//
// # State Management
//
// The TUI maintains immutable state with explicit updates:
//   - Models contain all state (no global variables)
//   - Update() returns new model + commands
//   - View() is pure function of model state
//   - Commands represent async operations
//
// The discovery waterfall runs inside a tea.Cmd; the scan screen polls the
// coordinator's session on a tick to display the active probe, and Stop()
// is the only control surface it needs while a scan is in flight.
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine, preventing race conditions.
package tui
