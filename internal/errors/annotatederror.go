// Package errors wraps the standard library errors package with annotated errors.
//
// An annotated error carries a message, optional [slog.Attr] annotations, and the stack trace of the place where it
// was created. Use [SlogError] to render the whole chain as a structured log attribute.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

const maxStackDepth = 32

//nolint:gochecknoglobals // re-exported from the standard library so that callers need only one errors import.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pcs   []uintptr
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// callers must be called directly from the exported constructors so that the skip count stays correct.
func callers() []uintptr {
	var pcs [maxStackDepth]uintptr
	// Skip runtime.Callers, callers, and the exported constructor.
	n := runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return pcs[:n]
}

// NewSentinel creates a sentinel error without stack trace. Use it for package level error values.
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // this is the sentinel constructor.
}

// New creates an error annotated with attrs and the current stack trace.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, cause: nil, attrs: attrs, pcs: callers()}
}

// Wrap annotates err with msg and attrs. Wrap returns nil when err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, cause: err, attrs: attrs, pcs: callers()}
}

// DecoratePanic turns a recovered panic value into an annotated error pointing to where the panic happened.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	var cause error
	if err, ok := excp.(error); ok {
		cause = err
	} else {
		cause = stderrors.New(fmt.Sprint(excp)) //nolint:err113 // dynamic panic value.
	}
	return &annotatedError{msg: "panic", cause: cause, attrs: nil, pcs: callers()}
}

// SlogError renders err as an "error" group with the message, the annotations collected from the whole chain, and the
// stack trace of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		stack       []uintptr
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		// The innermost error is closest to the root cause.
		stack = ae.pcs
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if len(stack) > 0 {
		attrs = append(attrs, slog.String("stack", formatStack(stack)))
	}
	return slog.Group("error", attrs...)
}

// walk visits the annotated errors in the tree rooted at err, outermost first.
func walk(err error, visit func(*annotatedError)) {
	switch e := err.(type) { //nolint:errorlint // we traverse the tree manually.
	case nil:
		return
	case *annotatedError:
		visit(e)
		walk(e.cause, visit)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(e.Unwrap(), visit)
	}
}

func formatStack(pcs []uintptr) string {
	frames := runtime.CallersFrames(pcs)
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") && !strings.HasSuffix(frame.File, "annotatederror.go") {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(frame.Function)
			sb.WriteString(" ")
			sb.WriteString(frame.File)
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(frame.Line))
		}
		if !more {
			break
		}
	}
	return sb.String()
}
