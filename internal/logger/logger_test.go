package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLogger_RequestID(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-42")
	New(ctx).LogInfo("fetch_latest", "ok")
	New(context.Background()).LogError("clear", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "[info] request_id=req-42 operation=fetch_latest message=ok")
	assert.Contains(t, out, "[error] request_id=unknown operation=clear error=boom")
}

func TestLogger_LevelFilter(t *testing.T) {
	buf := captureLog(t)
	SetLevel(ParseLevel("warn"))

	l := New(context.Background())
	l.LogInfo("op", "hidden")
	l.LogDebugf("op", "hidden %d", 1)
	l.LogWarnf("op", "shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
