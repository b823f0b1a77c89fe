package git

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	base     = []byte("<resources>\n    <string name=\"a\">1</string>\n</resources>\n")
	addB     = []byte("<resources>\n    <string name=\"a\">1</string>\n    <string name=\"b\">2</string>\n</resources>\n")
	addC     = []byte("<resources>\n    <string name=\"a\">1</string>\n    <string name=\"c\">3</string>\n</resources>\n")
	changeA1 = []byte("<resources>\n    <string name=\"a\">one</string>\n</resources>\n")
	changeA2 = []byte("<resources>\n    <string name=\"a\">uno</string>\n</resources>\n")
)

func mergers(t *testing.T) map[string]TextMerger {
	t.Helper()
	m := map[string]TextMerger{MergerDiff3: NewDiff3Merger()}
	if _, err := exec.LookPath("git"); err == nil {
		m[MergerGit] = New(t.TempDir())
	}
	return m
}

func TestMerge_Clean(t *testing.T) {
	for name, merger := range mergers(t) {
		t.Run(name, func(t *testing.T) {
			res, err := merger.Merge(context.Background(), TextInput{Base: base, Local: changeA1, Incoming: base}, nil)
			require.NoError(t, err)
			assert.True(t, res.Clean())
			assert.Equal(t, strings.TrimSuffix(string(changeA1), "\n"), strings.TrimSuffix(string(res.Content), "\n"))
		})
	}
}

func TestMerge_Conflict(t *testing.T) {
	labels := &Labels{Local: "ours:strings.xml", Base: "base:strings.xml", Incoming: "theirs:strings.xml"}

	for name, merger := range mergers(t) {
		t.Run(name, func(t *testing.T) {
			res, err := merger.Merge(context.Background(), TextInput{Base: base, Local: changeA1, Incoming: changeA2}, labels)
			require.NoError(t, err)
			assert.False(t, res.Clean())
			assert.Equal(t, 1, res.Conflicts)
			assert.True(t, HasConflictMarkers(res.Content))

			sections := ParseConflictMarkers(string(res.Content))
			require.Len(t, sections, 1)
			assert.Equal(t, "ours:strings.xml", sections[0].OurLabel)
			assert.Equal(t, "theirs:strings.xml", sections[0].TheirLabel)
		})
	}
}

func TestMerge_AdjacentAdditionsConflict(t *testing.T) {
	for name, merger := range mergers(t) {
		t.Run(name, func(t *testing.T) {
			res, err := merger.Merge(context.Background(), TextInput{Base: base, Local: addB, Incoming: addC}, nil)
			require.NoError(t, err)
			assert.False(t, res.Clean())
		})
	}
}

func TestGitMerge_MissingBinary(t *testing.T) {
	repo := New(t.TempDir()).WithBinary("definitely-not-a-git-binary")

	_, err := repo.Merge(context.Background(), TextInput{Base: base, Local: base, Incoming: base}, nil)
	assert.Error(t, err)
}

func TestDiff3Merge_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDiff3Merger().Merge(ctx, TextInput{Base: base, Local: base, Incoming: base}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTextMerger(t *testing.T) {
	repo := New(t.TempDir())

	m, err := NewTextMerger("", repo)
	require.NoError(t, err)
	assert.Same(t, repo, m)

	m, err = NewTextMerger("DIFF3", repo)
	require.NoError(t, err)
	assert.IsType(t, &Diff3Merger{}, m)

	_, err = NewTextMerger("kdiff", repo)
	assert.Error(t, err)
}
