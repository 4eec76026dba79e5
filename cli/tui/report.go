package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Summary is what the report viewer displays.
type Summary interface {
	// KeyValues returns the report facts in display order.
	KeyValues() [][2]string
	// Warnings returns the matched warning texts.
	Warnings() []string
	Passed() bool
}

// Fixed rows taken by the header box and help line.
const chromeHeight = 4

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ReportModel is a Bubble Tea model showing a check verdict, its counts and
// a scrollable list of matched warnings.
type ReportModel struct {
	viewType string
	summary  Summary
	warnings viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewReportModel creates a report model.
func NewReportModel(viewType string, summary Summary) ReportModel {
	return ReportModel{viewType: viewType, summary: summary}
}

// Init implements tea.Model.
func (m ReportModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.warnings, cmd = m.warnings.Update(msg)
	return m, cmd
}

func (m *ReportModel) resize(width, height int) {
	m.width = width
	m.height = height

	listHeight := height - lipgloss.Height(m.header()) - chromeHeight
	if listHeight < 3 {
		listHeight = 3
	}
	if !m.ready {
		m.warnings = viewport.New(width, listHeight)
		m.ready = true
	} else {
		m.warnings.Width = width
		m.warnings.Height = listHeight
	}
	m.warnings.SetContent(m.warningList())
}

// View implements tea.Model.
func (m ReportModel) View() string {
	if m.quitting {
		return ""
	}
	if m.summary == nil {
		return fmt.Sprintf("No data for %s", m.viewType)
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	if warnings := m.summary.Warnings(); len(warnings) > 0 {
		b.WriteString(SectionStyle.Render(fmt.Sprintf("Warnings (%d)", len(warnings))))
		b.WriteString("\n")
		if m.ready {
			b.WriteString(m.warnings.View())
		} else {
			b.WriteString(m.warningList())
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("↑/↓ scroll • q quit"))
	return b.String()
}

func (m ReportModel) title() string {
	if m.viewType == ViewHistoryReport {
		return "Archived Check"
	}
	return "Warning Check"
}

func (m ReportModel) header() string {
	if m.summary == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title()))
	b.WriteString("\n")

	for _, kv := range m.summary.KeyValues() {
		value := ValueStyle.Render(kv[1])
		switch kv[0] {
		case "outcome":
			value = OutcomeStyle(kv[1]).Render(kv[1])
		case "failed_log":
			value = ErrorStyle.Render(kv[1])
		}
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(kv[0]+":"), value)
	}

	verdict := SuccessStyle.Render("✓ no disallowed warnings")
	if !m.summary.Passed() {
		verdict = WarningStyle.Render("✗ build warnings must be resolved")
	}
	b.WriteString(verdict)

	return BoxStyle.Render(b.String())
}

func (m ReportModel) warningList() string {
	if m.summary == nil {
		return ""
	}
	warnings := m.summary.Warnings()
	lines := make([]string, 0, len(warnings))
	for i, w := range warnings {
		lines = append(lines, fmt.Sprintf("%s %s",
			LabelStyle.Width(6).Render(fmt.Sprintf("%d.", i+1)),
			WarningStyle.Render(w)))
	}
	return strings.Join(lines, "\n")
}

// RunReportTUI runs the report viewer.
func RunReportTUI(viewType string, summary Summary) error {
	p := tea.NewProgram(NewReportModel(viewType, summary), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderReportStatic renders the report without an interactive program.
// All warnings are shown.
func RenderReportStatic(viewType string, summary Summary) string {
	model := NewReportModel(viewType, summary)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
