// Package driver runs one invocation of the merge driver: it reads the three
// revisions git hands over, resolves them and writes the outcome back to the
// local revision's path.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/corpeningc/xmlmerge/internal/config"
	"github.com/corpeningc/xmlmerge/internal/git"
	"github.com/corpeningc/xmlmerge/internal/merge"
	"github.com/corpeningc/xmlmerge/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const (
	ExitResolved = 0
	ExitConflict = 1
)

// Paths are the %A %O %B %P arguments of a git merge driver.
type Paths struct {
	Local    string
	Base     string
	Incoming string
	// Target is the path of the file being merged, used for messages only.
	Target string
}

type Outcome struct {
	Result   *merge.Result
	ExitCode int
}

type Driver struct {
	cfg    *config.Config
	merger git.TextMerger
	engine *merge.Engine
	logger *log.Logger
	stderr io.Writer
}

func New(cfg *config.Config, merger git.TextMerger, logger *log.Logger, stderr io.Writer) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &Driver{
		cfg:    cfg,
		merger: merger,
		engine: merge.NewEngine(logger),
		logger: logger,
		stderr: stderr,
	}
}

// Run merges the revisions named by p. A returned error is fatal; a value
// conflict is reported through the outcome's exit code.
func (d *Driver) Run(ctx context.Context, p Paths) (*Outcome, error) {
	target := p.Target
	if target == "" {
		target = p.Local
	}
	logger := d.logger.With("file", target)

	in, err := readRevisions(p)
	if err != nil {
		return nil, err
	}
	logger.Debug("read revisions",
		"local", humanize.Bytes(uint64(len(in.Local))),
		"base", humanize.Bytes(uint64(len(in.Base))),
		"incoming", humanize.Bytes(uint64(len(in.Incoming))))

	text, err := d.merger.Merge(ctx, in, nil)
	if err != nil {
		return nil, errors.Wrap(err, "line merge")
	}
	logger.Debug("line merge finished", "conflicts", text.Conflicts, "size", humanize.Bytes(uint64(len(text.Content))))

	result := d.engine.Resolve(in.Local, in.Incoming, text.Content)

	if result.Resolved() {
		if err := writeLocal(p.Local, result.Content); err != nil {
			return nil, err
		}
		switch result.State {
		case merge.StateAccepted:
			logger.Info("merged by lines")
		case merge.StateMerged:
			logger.Info("merged by entries", "added", len(result.Added), "kept", len(result.Kept))
		}
		return &Outcome{Result: result, ExitCode: ExitResolved}, nil
	}

	labeled, err := d.merger.Merge(ctx, in, d.cfg.MarkerLabels(p.Target))
	if err != nil {
		return nil, errors.Wrap(err, "line merge with labels")
	}
	if err := writeLocal(p.Local, labeled.Content); err != nil {
		return nil, err
	}

	if result.ParseErr != nil {
		logger.Error("cannot merge automatically, resolve manually", "err", result.ParseErr)
	} else {
		logger.Error("conflicting values, resolve manually", "entries", strings.Join(result.Report.Names(), ", "))
	}
	if _, err := fmt.Fprint(d.stderr, ui.RenderReport(target, result)); err != nil {
		logger.Warn("writing conflict report", "err", err)
	}

	return &Outcome{Result: result, ExitCode: ExitConflict}, nil
}

func readRevisions(p Paths) (git.TextInput, error) {
	var in git.TextInput
	var err error

	if in.Local, err = os.ReadFile(p.Local); err != nil {
		return in, errors.Wrap(err, "reading local revision")
	}
	if in.Base, err = os.ReadFile(p.Base); err != nil {
		return in, errors.Wrap(err, "reading base revision")
	}
	if in.Incoming, err = os.ReadFile(p.Incoming); err != nil {
		return in, errors.Wrap(err, "reading incoming revision")
	}
	return in, nil
}

func writeLocal(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return errors.Wrap(os.WriteFile(path, content, mode), "writing merge result")
}
