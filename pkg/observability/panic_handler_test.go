package observability

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(ErrorLevel, buf)

	func() {
		defer RecoverPanic(logger, "background rescan")
		panic("boom")
	}()

	assert.Contains(t, buf.String(), "PANIC recovered")
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "background rescan")
}

func TestRecoverPanicWithCallback(t *testing.T) {
	logger := NewLogger(ErrorLevel, io.Discard)

	called := false
	func() {
		defer RecoverPanicWithCallback(logger, "watcher", func() { called = true })
		panic("boom")
	}()
	assert.True(t, called, "callback runs after a panic")

	called = false
	func() {
		defer RecoverPanicWithCallback(logger, "watcher", func() { called = true })
	}()
	assert.True(t, called, "callback runs on normal return")
}
