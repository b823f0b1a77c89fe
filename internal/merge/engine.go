// Package merge resolves a merge of two revisions of a document, first by
// accepting a clean line merge and otherwise by merging named entries.
package merge

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/corpeningc/xmlmerge/internal/document"
	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/pkg/errors"
)

type State int

const (
	StateTextMerge State = iota
	StateAccepted
	StateStructuralFallback
	StateConflicted
	StateMerged
)

func (s State) String() string {
	switch s {
	case StateTextMerge:
		return "text-merge"
	case StateAccepted:
		return "accepted"
	case StateStructuralFallback:
		return "structural-fallback"
	case StateConflicted:
		return "conflicted"
	case StateMerged:
		return "merged"
	default:
		return "unknown"
	}
}

// Conflict is an entry both revisions hold with different values.
type Conflict struct {
	Name     string `yaml:"name"`
	Local    string `yaml:"local"`
	Incoming string `yaml:"incoming"`
}

type ConflictReport struct {
	Conflicts []Conflict
}

func (r *ConflictReport) Empty() bool {
	return r == nil || len(r.Conflicts) == 0
}

func (r *ConflictReport) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		names = append(names, c.Name)
	}
	return names
}

type Result struct {
	State   State
	Content []byte
	Report  *ConflictReport
	// Added holds the entries copied from the incoming revision.
	Added []string
	// Kept holds local entries the incoming revision does not have. They are
	// never removed.
	Kept []string
	// ParseErr is set when a revision could not be used for a structural
	// merge.
	ParseErr error
}

func (r *Result) Resolved() bool {
	return r.State == StateAccepted || r.State == StateMerged
}

type Engine struct {
	logger *log.Logger
}

func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{logger: logger}
}

// Resolve decides the outcome of a merge from the raw local and incoming
// revisions and the output of the line merge.
func (e *Engine) Resolve(local, incoming, output []byte) *Result {
	if !git.HasConflictMarkers(output) {
		_, err := document.Parse(output)
		if err == nil {
			e.logger.Debug("line merge produced a valid document", "state", StateAccepted)
			return &Result{State: StateAccepted, Content: output}
		}
		e.logger.Debug("line merge output is not a valid document", "err", err)
	}

	e.logger.Debug("falling back to structural merge", "state", StateStructuralFallback)

	localDoc, err := document.Parse(local)
	if err != nil {
		return &Result{State: StateConflicted, ParseErr: errors.Wrap(err, "local revision")}
	}
	incomingDoc, err := document.Parse(incoming)
	if err != nil {
		return &Result{State: StateConflicted, ParseErr: errors.Wrap(err, "incoming revision")}
	}

	return e.Structural(localDoc, incomingDoc)
}

// Structural merges incoming into a copy of local by entry name. Neither
// document is modified.
func (e *Engine) Structural(local, incoming *document.Document) *Result {
	localSet, err := Key(local.Entries())
	if err != nil {
		return &Result{State: StateConflicted, ParseErr: errors.Wrap(err, "local revision")}
	}
	incomingSet, err := Key(incoming.Entries())
	if err != nil {
		return &Result{State: StateConflicted, ParseErr: errors.Wrap(err, "incoming revision")}
	}

	report := &ConflictReport{}
	for _, name := range Common(localSet, incomingSet) {
		ours, _ := localSet.Get(name)
		theirs, _ := incomingSet.Get(name)
		if ours.Value != theirs.Value {
			report.Conflicts = append(report.Conflicts, Conflict{
				Name:     name,
				Local:    ours.Value,
				Incoming: theirs.Value,
			})
		}
	}

	kept := Difference(localSet, incomingSet)
	if !report.Empty() {
		e.logger.Debug("value conflicts found", "entries", report.Names())
		return &Result{State: StateConflicted, Report: report, Kept: kept}
	}

	added := Difference(incomingSet, localSet)
	merged := local.Clone()
	for _, name := range added {
		entry, _ := incomingSet.Get(name)
		if err := merged.AppendFrom(incoming, entry); err != nil {
			return &Result{State: StateConflicted, Report: report, ParseErr: err}
		}
	}

	content, err := merged.Bytes()
	if err != nil {
		return &Result{State: StateConflicted, Report: report, ParseErr: err}
	}

	e.logger.Debug("structural merge complete", "added", len(added), "kept", len(kept))
	return &Result{
		State:   StateMerged,
		Content: content,
		Report:  report,
		Added:   added,
		Kept:    kept,
	}
}
