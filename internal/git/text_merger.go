package git

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/epiclabs-io/diff3"
	"github.com/pkg/errors"
)

const (
	MergerGit   = "git"
	MergerDiff3 = "diff3"
)

// TextInput holds the three revisions handed to a line merge.
type TextInput struct {
	Base     []byte
	Local    []byte
	Incoming []byte
}

// Labels name the sides in conflict markers. A nil *Labels leaves the
// choice to the merge primitive.
type Labels struct {
	Local    string
	Base     string
	Incoming string
}

type TextResult struct {
	Content   []byte
	Conflicts int
}

func (r *TextResult) Clean() bool {
	return r.Conflicts == 0
}

// TextMerger is a three-way line merge primitive. Producing conflict markers
// is not an error; failing to run at all is.
type TextMerger interface {
	Merge(ctx context.Context, in TextInput, labels *Labels) (*TextResult, error)
}

func NewTextMerger(kind string, repo *GitRepo) (TextMerger, error) {
	switch strings.ToLower(kind) {
	case "", MergerGit:
		return repo, nil
	case MergerDiff3:
		return NewDiff3Merger(), nil
	default:
		return nil, fmt.Errorf("unknown text merger %q (want %s or %s)", kind, MergerGit, MergerDiff3)
	}
}

// Merge runs git merge-file over the three revisions and returns its
// output. A positive exit status below 128 is the conflict count.
func (repo *GitRepo) Merge(ctx context.Context, in TextInput, labels *Labels) (*TextResult, error) {
	dir, err := os.MkdirTemp("", "xmlmerge-")
	if err != nil {
		return nil, errors.Wrap(err, "creating merge workspace")
	}
	defer os.RemoveAll(dir)

	local, err := writeRevision(dir, "local", in.Local)
	if err != nil {
		return nil, err
	}
	base, err := writeRevision(dir, "base", in.Base)
	if err != nil {
		return nil, err
	}
	incoming, err := writeRevision(dir, "incoming", in.Incoming)
	if err != nil {
		return nil, err
	}

	args := []string{"merge-file", "-p"}
	if labels != nil {
		args = append(args, "-L", labels.Local, "-L", labels.Base, "-L", labels.Incoming)
	}
	args = append(args, local, base, incoming)

	stdout, stderr, err := repo.run(ctx, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code > 0 && code < 128 {
				return &TextResult{Content: stdout.Bytes(), Conflicts: code}, nil
			}
		}
		return nil, formatCommandError("merge-file", err, stdout, stderr)
	}

	return &TextResult{Content: stdout.Bytes()}, nil
}

func writeRevision(dir, name string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, name+"-*")
	if err != nil {
		return "", errors.Wrapf(err, "creating %s revision", name)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return "", errors.Wrapf(err, "writing %s revision", name)
	}
	return f.Name(), nil
}

// Diff3Merger merges in process using the diff3 algorithm.
type Diff3Merger struct{}

func NewDiff3Merger() *Diff3Merger {
	return &Diff3Merger{}
}

func (m *Diff3Merger) Merge(ctx context.Context, in TextInput, labels *Labels) (*TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ours, theirs := "ours", "theirs"
	if labels != nil {
		ours, theirs = labels.Local, labels.Incoming
	}

	result, err := diff3.Merge(
		strings.NewReader(string(in.Local)),
		strings.NewReader(string(in.Base)),
		strings.NewReader(string(in.Incoming)),
		true,
		ours,
		theirs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "diff3 merge failed")
	}

	merged, err := io.ReadAll(result.Result)
	if err != nil {
		return nil, errors.Wrap(err, "reading diff3 result")
	}

	res := &TextResult{Content: merged}
	if result.Conflicts {
		res.Conflicts = len(ParseConflictMarkers(string(merged)))
	}
	if result.Conflicts && res.Conflicts == 0 {
		return nil, errors.New("diff3 reported conflicts without conflict markers")
	}
	return res, nil
}
