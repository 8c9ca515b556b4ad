package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("booking created id=%d", 1)
	log.Warn("slot %s is occupied", "09:30")

	out := buf.String()
	assert.NotContains(t, out, "booking created")
	assert.Contains(t, out, "slot 09:30 is occupied")
	assert.Contains(t, out, "level=WARN")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("request_id", "abc")

	log.Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "INFO", parseLevel("unknown").String())
	assert.Equal(t, "ERROR", parseLevel(" ERROR ").String())
}
