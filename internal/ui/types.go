package ui

type reportRenderedMsg struct {
	content string
}
