package merge

import (
	"fmt"

	"github.com/corpeningc/xmlmerge/internal/document"
	"github.com/pkg/errors"
)

var ErrDuplicateName = errors.New("duplicate entry name")

// DuplicateNameError reports a name that appears more than once in one
// revision, which leaves the join between revisions ambiguous.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateName, e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// EntrySet indexes entries by name, keeping encounter order. Names are
// compared exactly, case included.
type EntrySet struct {
	order  []string
	byName map[string]document.Entry
}

func Key(entries []document.Entry) (*EntrySet, error) {
	s := &EntrySet{byName: make(map[string]document.Entry, len(entries))}
	for _, e := range entries {
		if _, ok := s.byName[e.Name]; ok {
			return nil, &DuplicateNameError{Name: e.Name}
		}
		s.byName[e.Name] = e
		s.order = append(s.order, e.Name)
	}
	return s, nil
}

func (s *EntrySet) Len() int {
	return len(s.order)
}

func (s *EntrySet) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *EntrySet) Get(name string) (document.Entry, bool) {
	e, ok := s.byName[name]
	return e, ok
}

func (s *EntrySet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Common returns the names present in both sets, in a's order.
func Common(a, b *EntrySet) []string {
	var names []string
	for _, name := range a.order {
		if b.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Difference returns the names of a that are absent from b, in a's order.
func Difference(a, b *EntrySet) []string {
	var names []string
	for _, name := range a.order {
		if !b.Has(name) {
			names = append(names, name)
		}
	}
	return names
}
