package log

import (
	"context"
	"io"
	"os"

	charmLog "github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

type loggerContextKey struct{}

var Levels = []string{"debug", "info", "warn", "error"}

// New returns a logger writing to w at the named level. Diagnostics of a
// merge driver must never reach stdout, so w is normally os.Stderr.
func New(w io.Writer, level string) (*charmLog.Logger, error) {
	lvl, err := charmLog.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	return charmLog.NewWithOptions(w, charmLog.Options{
		Level:  lvl,
		Prefix: "xmlmerge",
	}), nil
}

// With returns a new context with the given logger added to the context.
func With(ctx context.Context, l *charmLog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// From returns the logger associated with the given context.
func From(ctx context.Context) *charmLog.Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*charmLog.Logger); ok {
		return l
	}
	return charmLog.NewWithOptions(os.Stderr, charmLog.Options{Prefix: "xmlmerge"})
}
