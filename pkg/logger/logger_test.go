package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("booking id=%d created", 1)
	log.Warn("slot %s is taken", "10:00")

	out := buf.String()
	assert.NotContains(t, out, "booking id=1 created")
	assert.Contains(t, out, "slot 10:00 is taken")
	assert.Contains(t, out, "level=WARN")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	require.Error(t, err)
}
