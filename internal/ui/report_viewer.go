package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/corpeningc/xmlmerge/internal/merge"
)

type ReportViewerModel struct {
	target   string
	result   *merge.Result
	content  string
	viewport viewport.Model
	ready    bool
}

func NewReportViewerModel(target string, result *merge.Result) ReportViewerModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62"))

	return ReportViewerModel{
		target:   target,
		result:   result,
		viewport: vp,
	}
}

func (m ReportViewerModel) Init() tea.Cmd {
	return m.renderReport()
}

func (m ReportViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 4 // Title + help + borders
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}

		if m.content != "" {
			m.viewport.SetContent(m.content)
		}

	case reportRenderedMsg:
		m.content = msg.content
		if m.ready {
			m.viewport.SetContent(m.content)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			m.viewport.ScrollDown(1)

		case "k", "up":
			m.viewport.ScrollUp(1)

		case "d", "ctrl+d":
			m.viewport.HalfPageDown()

		case "u", "ctrl+u":
			m.viewport.HalfPageUp()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ReportViewerModel) View() string {
	if !m.ready {
		return "Loading report..."
	}

	var sections []string

	title := titleStyle.Render("Merge report - " + m.target)
	sections = append(sections, title)

	sections = append(sections, m.viewport.View())

	help := helpStyle.Render("j/k: line by line | d/u: half page | g/G: top/bottom | q: quit")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ReportViewerModel) renderReport() tea.Cmd {
	return func() tea.Msg {
		return reportRenderedMsg{content: RenderReport(m.target, m.result)}
	}
}

func ShowReport(target string, result *merge.Result) error {
	m := NewReportViewerModel(target, result)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
