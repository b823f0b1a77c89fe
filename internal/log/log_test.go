package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "file", "strings.xml")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "file=strings.xml")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	l, err := New(&bytes.Buffer{}, "debug")
	require.NoError(t, err)

	ctx := With(context.Background(), l)
	assert.Same(t, l, From(ctx))
	assert.NotNil(t, From(context.Background()))
}
