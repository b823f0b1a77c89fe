package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/corpeningc/xmlmerge/internal/merge"
	"github.com/samber/lo"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// RenderReport describes the outcome of a merge of target for a terminal.
func RenderReport(target string, r *merge.Result) string {
	var b strings.Builder

	switch {
	case r.ParseErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: cannot merge entries", target)))
		b.WriteString("\n  ")
		b.WriteString(r.ParseErr.Error())
		b.WriteString("\n")
	case !r.Report.Empty():
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %d conflicting %s", target, len(r.Report.Conflicts), plural(len(r.Report.Conflicts), "entry", "entries"))))
		b.WriteString("\n")
		for _, c := range r.Report.Conflicts {
			b.WriteString(renderConflict(c))
		}
	case r.State == merge.StateAccepted:
		b.WriteString(titleStyle.Render(target + ": merged by lines"))
		b.WriteString("\n")
	default:
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s: no conflicting entries", target)))
		b.WriteString("\n")
	}

	if len(r.Added) > 0 {
		b.WriteString(headerStyle.Render("added"))
		b.WriteString(" ")
		b.WriteString(addedStyle.Render(joinNames(r.Added)))
		b.WriteString("\n")
	}
	if len(r.Kept) > 0 {
		b.WriteString(headerStyle.Render("kept"))
		b.WriteString(" ")
		b.WriteString(contextStyle.Render(joinNames(r.Kept)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderConflict(c merge.Conflict) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(c.Name))
	b.WriteString("\n")
	b.WriteString("    ")
	b.WriteString(removedStyle.Render("ours:   " + c.Local))
	b.WriteString("\n")
	b.WriteString("    ")
	b.WriteString(addedStyle.Render("theirs: " + c.Incoming))
	b.WriteString("\n")
	b.WriteString("    ")
	b.WriteString(contextStyle.Render("diff:   "))
	b.WriteString(ValueDiff(c.Local, c.Incoming))
	b.WriteString("\n")
	return b.String()
}

// ValueDiff renders the character-level difference between two values.
func ValueDiff(ours, theirs string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(ours, theirs, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(removedStyle.Strikethrough(true).Render(d.Text))
		case diffmatchpatch.DiffInsert:
			b.WriteString(addedStyle.Underline(true).Render(d.Text))
		default:
			b.WriteString(contextStyle.Render(d.Text))
		}
	}
	return b.String()
}

func joinNames(names []string) string {
	return strings.Join(lo.Map(names, func(name string, _ int) string {
		return fmt.Sprintf("%q", name)
	}), ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
