package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggersFollowOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	New("server").Warn("queue full", "size", 3)
	assert.Contains(t, buf.String(), "server")
	assert.Contains(t, buf.String(), "queue full")

	buf.Reset()
	Interactive("cli").Warn("no candidate")
	assert.Contains(t, buf.String(), "cli")
	assert.NotRegexp(t, `^\d{4}`, buf.String())
}

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, log.DebugLevel, Interactive("x").GetLevel())

	Setup(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}
