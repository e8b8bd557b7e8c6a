// Package tui provides terminal user interface components for nuri.
//
// This package uses the Bubble Tea framework to create interactive terminal
// interfaces, primarily the application picker used when a command that
// needs an application name is run without one.
//
// # Application Picker
//
// The picker displays configured applications with their routing state
// and allows selection:
//
//	result, err := tui.RunPicker("Select application to restart", apps)
//	switch result.Action {
//	case tui.ActionPick:
//	    // Operate on result.App
//	case tui.ActionQuit:
//	    // Exit without selecting
//	}
//
// # Picker Features
//
//   - Lists all configured applications
//   - Keyboard navigation (j/k or arrows) and filtering (/)
//   - Quick actions: Enter (select), q (quit)
//   - Color-coded state indicators (enabled, disabled, unrouted)
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
