package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/corpeningc/xmlmerge/internal/merge"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReport_Conflicts(t *testing.T) {
	out := RenderReport("strings.xml", &merge.Result{
		State: merge.StateConflicted,
		Report: &merge.ConflictReport{Conflicts: []merge.Conflict{
			{Name: "title", Local: "Hello", Incoming: "Hi"},
			{Name: "body", Local: "x", Incoming: "y"},
		}},
		Kept: []string{"legacy"},
	})

	assert.Contains(t, out, "strings.xml: 2 conflicting entries")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "ours:   Hello")
	assert.Contains(t, out, "theirs: Hi")
	assert.Contains(t, out, `"legacy"`)
}

func TestRenderReport_ParseError(t *testing.T) {
	out := RenderReport("strings.xml", &merge.Result{
		State:    merge.StateConflicted,
		ParseErr: errors.New("local revision: malformed document"),
	})

	assert.Contains(t, out, "cannot merge entries")
	assert.Contains(t, out, "local revision: malformed document")
}

func TestRenderReport_Resolved(t *testing.T) {
	out := RenderReport("strings.xml", &merge.Result{State: merge.StateAccepted})
	assert.Contains(t, out, "merged by lines")

	out = RenderReport("strings.xml", &merge.Result{
		State:  merge.StateMerged,
		Report: &merge.ConflictReport{},
		Added:  []string{"c", "d"},
	})
	assert.Contains(t, out, "no conflicting entries")
	assert.Contains(t, out, `"c", "d"`)
}

func TestValueDiff(t *testing.T) {
	out := ValueDiff("Hello world", "Hello there")

	assert.Contains(t, out, "Hello ")
	assert.Contains(t, out, "there")
	assert.Contains(t, out, "world")
}

func TestReportViewerModel(t *testing.T) {
	result := &merge.Result{
		State:  merge.StateConflicted,
		Report: &merge.ConflictReport{Conflicts: []merge.Conflict{{Name: "a", Local: "1", Incoming: "2"}}},
	}
	m := NewReportViewerModel("strings.xml", result)
	assert.Equal(t, "Loading report...", m.View())

	msg := m.Init()()
	rendered, ok := msg.(reportRenderedMsg)
	require.True(t, ok)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.Update(rendered)

	view := model.View()
	assert.Contains(t, view, "Merge report - strings.xml")
	assert.Contains(t, view, "1 conflicting entry")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
