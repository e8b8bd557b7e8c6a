// Package tui provides terminal user interface components for nuri
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionPick
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	App    string
}

// AppItem is one application as shown in the picker and the table.
type AppItem struct {
	Name     string
	Type     string
	Disabled bool
	Routes   int
}

// state maps an application to its display icon and label. An enabled
// application with no route steps is reachable by listeners passing to
// it directly, but unrouted is worth surfacing.
func (i AppItem) state() (string, string) {
	switch {
	case i.Disabled:
		return "●", "disabled"
	case i.Routes == 0:
		return "○", "unrouted"
	default:
		return "✓", "enabled"
	}
}

func (i AppItem) Title() string {
	return i.Name
}

func (i AppItem) Description() string {
	appType := i.Type
	if appType == "" {
		appType = "unknown"
	}

	icon, label := i.state()
	routes := "no route steps"
	if i.Routes == 1 {
		routes = "1 route step"
	} else if i.Routes > 1 {
		routes = fmt.Sprintf("%d route steps", i.Routes)
	}

	return fmt.Sprintf("%s %s | %s | %s", icon, label, appType, routes)
}

func (i AppItem) FilterValue() string {
	return i.Name
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	unroutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
)

// Model is the bubbletea model for the application picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new application picker
func NewPicker(title string, apps []AppItem) Model {
	items := make([]list.Item, len(apps))
	for i, app := range apps {
		items[i] = app
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{
		list: l,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(AppItem); ok {
				m.result = PickerResult{
					Action: ActionPick,
					App:    item.Name,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive application picker
func RunPicker(title string, apps []AppItem) (PickerResult, error) {
	if len(apps) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(title, apps)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// AppTable renders a non-interactive application listing
func AppTable(apps []AppItem) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Applications") + "\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n")

	if len(apps) == 0 {
		sb.WriteString("No applications configured.\n")
		sb.WriteString("Create one with: nuri edit applications/<name>\n")
		return sb.String()
	}

	sb.WriteString(headerStyle.Render(fmt.Sprintf("  %-24s %-16s %-10s %s", "NAME", "TYPE", "STATE", "ROUTES")) + "\n")

	for _, app := range apps {
		appType := app.Type
		if appType == "" {
			appType = "unknown"
		}

		icon, label := app.state()
		style := enabledStyle
		switch label {
		case "disabled":
			style = disabledStyle
		case "unrouted":
			style = unroutedStyle
		}

		sb.WriteString(fmt.Sprintf("%s %-24s %-16s %-10s %d\n",
			style.Render(icon), app.Name, appType, style.Render(label), app.Routes))
	}

	return sb.String()
}
