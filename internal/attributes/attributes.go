// Package attributes edits the gitattributes lines that route files to a
// merge driver.
package attributes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

const FileName = ".gitattributes"

// PathFor returns the attributes file of the worktree at root. With local
// set it is the repository-private .git/info/attributes.
func PathFor(root string, local bool) string {
	if local {
		return filepath.Join(root, ".git", "info", "attributes")
	}
	return filepath.Join(root, FileName)
}

type File struct {
	Path  string
	lines []string
}

// Load reads the attributes file at path. A missing file loads empty.
func Load(path string) (*File, error) {
	f := &File{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content != "" {
		f.lines = strings.Split(content, "\n")
	}
	return f, nil
}

func mergeAttr(driver string) string {
	return "merge=" + driver
}

// fields splits an attributes line into its pattern and attributes. Blank
// lines and comments have no pattern.
func fields(line string) (string, []string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", nil
	}
	parts := strings.Fields(trimmed)
	return parts[0], parts[1:]
}

// Patterns returns the patterns routed to driver, in file order.
func (f *File) Patterns(driver string) []string {
	want := mergeAttr(driver)
	var patterns []string
	for _, line := range f.lines {
		pattern, attrs := fields(line)
		for _, attr := range attrs {
			if attr == want {
				patterns = append(patterns, pattern)
				break
			}
		}
	}
	return patterns
}

// Add routes pattern to driver. It reports false if the pattern already is.
func (f *File) Add(pattern, driver string) bool {
	for _, existing := range f.Patterns(driver) {
		if existing == pattern {
			return false
		}
	}
	f.lines = append(f.lines, pattern+" "+mergeAttr(driver))
	return true
}

// Remove drops every merge=driver attribute and returns how many patterns
// were affected. Lines left without attributes are deleted.
func (f *File) Remove(driver string) int {
	want := mergeAttr(driver)
	removed := 0
	kept := f.lines[:0]

	for _, line := range f.lines {
		pattern, attrs := fields(line)
		if pattern == "" {
			kept = append(kept, line)
			continue
		}

		var rest []string
		for _, attr := range attrs {
			if attr != want {
				rest = append(rest, attr)
			}
		}
		if len(rest) == len(attrs) {
			kept = append(kept, line)
			continue
		}

		removed++
		if len(rest) > 0 {
			kept = append(kept, pattern+" "+strings.Join(rest, " "))
		}
	}

	f.lines = kept
	return removed
}

func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", f.Path)
	}

	content := ""
	if len(f.lines) > 0 {
		content = strings.Join(f.lines, "\n") + "\n"
	}
	return errors.Wrapf(os.WriteFile(f.Path, []byte(content), 0o644), "writing %s", f.Path)
}

// Matcher reports whether repository-relative paths are routed to a driver.
type Matcher struct {
	patterns *ignore.GitIgnore
}

func NewMatcher(patterns []string) *Matcher {
	return &Matcher{patterns: ignore.CompileIgnoreLines(patterns...)}
}

func (f *File) Matcher(driver string) *Matcher {
	return NewMatcher(f.Patterns(driver))
}

func (m *Matcher) Matches(path string) bool {
	return m.patterns.MatchesPath(filepath.ToSlash(path))
}
