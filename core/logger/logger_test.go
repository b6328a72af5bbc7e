package logger

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
)

func TestSetLoggerRoutesPackageCalls(t *testing.T) {
	previous := Get()
	t.Cleanup(func() { SetLogger(previous) })

	var buf bytes.Buffer
	SetLogger(hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn}))

	Info("MeetingService:CreateMeeting", "meeting_id", "m-1")
	Warn("MeetingService:checkConflicts", "user_id", "u-1")

	out := buf.String()
	assert.NotContains(t, out, "CreateMeeting")
	assert.Contains(t, out, "MeetingService:checkConflicts")
	assert.Contains(t, out, "user_id=u-1")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]hclog.Level{
		"debug":   hclog.Debug,
		" WARN ":  hclog.Warn,
		"warning": hclog.Warn,
		"error":   hclog.Error,
		"info":    hclog.Info,
		"":        hclog.Info,
		"verbose": hclog.Info,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
