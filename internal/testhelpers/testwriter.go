package testhelpers

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
)

// Writer is an [io.Writer] that forwards to t.Log so that logs are only shown for failing or verbose tests.
type Writer struct {
	t    testing.TB
	done atomic.Bool
}

// NewWriter creates a Writer bound to the lifetime of t.
//
// Writing after the test has finished panics. This surfaces servers and goroutines that outlive their test, usually
// because a t.Cleanup shutting them down is missing.
func NewWriter(t testing.TB) io.Writer {
	w := &Writer{t: t, done: atomic.Bool{}}
	t.Cleanup(func() {
		w.done.Store(true)
	})
	return w
}

// Write logs p with surrounding newlines removed.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		panic("testwriter: attempted to write after test completion. Did you remember to t.Cleanup(server.Shutdown)?")
	}
	if output := strings.Trim(string(p), "\n"); output != "" {
		w.t.Helper()
		w.t.Log(output)
	}
	return len(p), nil
}
