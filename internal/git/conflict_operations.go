package git

import (
	"strings"
)

const markerSize = 7

type ConflictSection struct {
	StartLine    int
	EndLine      int
	OurChanges   string
	BaseContent  string
	TheirChanges string
	OurLabel     string
	TheirLabel   string
}

type markerKind int

const (
	noMarker markerKind = iota
	oursMarker
	baseMarker
	splitMarker
	theirsMarker
)

// markerOf reports whether line is a conflict marker line: a run of at
// least seven identical marker characters followed by the end of the line
// or a space. The run length is returned so a section can insist on one
// width throughout.
func markerOf(line string) (markerKind, int, string) {
	line = strings.TrimSuffix(line, "\r")
	if len(line) < markerSize {
		return noMarker, 0, ""
	}

	var kind markerKind
	switch line[0] {
	case '<':
		kind = oursMarker
	case '|':
		kind = baseMarker
	case '=':
		kind = splitMarker
	case '>':
		kind = theirsMarker
	default:
		return noMarker, 0, ""
	}

	width := 1
	for width < len(line) && line[width] == line[0] {
		width++
	}
	if width < markerSize {
		return noMarker, 0, ""
	}

	rest := line[width:]
	if rest == "" {
		return kind, width, ""
	}
	if rest[0] != ' ' || kind == splitMarker {
		return noMarker, 0, ""
	}
	return kind, width, strings.TrimSpace(rest)
}

// HasConflictMarkers reports whether content holds at least one complete
// conflict section.
func HasConflictMarkers(content []byte) bool {
	return len(ParseConflictMarkers(string(content))) > 0
}

// ParseConflictMarkers returns the conflict sections of content with
// 1-based line numbers. A section needs a separator before its closing
// marker, and all its markers share the width of the opening one. Lines
// that break either rule are content; unterminated sections are ignored.
func ParseConflictMarkers(content string) []ConflictSection {
	var sections []ConflictSection
	var current *ConflictSection
	var ours, base, theirs []string
	var width int
	var split bool
	target := &ours

	for i, line := range strings.Split(content, "\n") {
		kind, w, label := markerOf(line)

		if current == nil {
			if kind == oursMarker {
				current = &ConflictSection{StartLine: i + 1, OurLabel: label}
				ours, base, theirs = nil, nil, nil
				width, split = w, false
				target = &ours
			}
			continue
		}

		if w != width {
			kind = noMarker
		}

		switch {
		case kind == baseMarker && !split:
			target = &base
		case kind == splitMarker && !split:
			split = true
			target = &theirs
		case kind == theirsMarker && split:
			current.EndLine = i + 1
			current.TheirLabel = label
			current.OurChanges = strings.Join(ours, "\n")
			current.BaseContent = strings.Join(base, "\n")
			current.TheirChanges = strings.Join(theirs, "\n")
			sections = append(sections, *current)
			current = nil
		default:
			*target = append(*target, line)
		}
	}

	return sections
}
