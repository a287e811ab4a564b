package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", &buf)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "[paperqa]")
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "debug", normalizeLevel("DEBUG"))
	assert.Equal(t, "warn", normalizeLevel("warning"))
	assert.Equal(t, "disable", normalizeLevel("off"))
	assert.Equal(t, "info", normalizeLevel("verbose"))
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := Discard()
	assert.Same(t, l, OrDiscard(l))
}
