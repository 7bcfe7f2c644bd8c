// Package errors extends the standard library errors with slog-annotated
// wrapping so that context travels with the error instead of the log call.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// sentinel is a comparable error for package-level error values.
type sentinel string

func (e sentinel) Error() string {
	return string(e)
}

// NewSentinel creates an error value suitable for assignment to a package-level
// var and comparison with Is.
func NewSentinel(message string) error {
	return sentinel(message)
}

// annotatedError wraps an error with a message, slog attributes, and the
// source location of the Wrap call.
type annotatedError struct {
	err         error
	message     string
	annotations []slog.Attr
	source      string
}

// Wrap annotates err with a message and optional slog attributes. The wrapped
// error remembers the file:line of the Wrap call for structured logging with
// SlogError.
func Wrap(err error, message string, annotations ...slog.Attr) error {
	return &annotatedError{
		err:         err,
		message:     message,
		annotations: annotations,
		source:      callerSource(2), //nolint:mnd // skip callerSource and Wrap.
	}
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// SlogError converts an error into a slog.Attr group containing the message,
// all annotations collected from the wrap chain, and the innermost recorded
// source location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []slog.Attr
		source      string
	)
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		var annotated *annotatedError
		if errors.As(unwrapped, &annotated) {
			annotations = append(annotations, annotated.annotations...)
			source = annotated.source
			unwrapped = annotated
			continue
		}
		break
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		annotationArgs := make([]any, 0, len(annotations))
		for _, annotation := range annotations {
			annotationArgs = append(annotationArgs, annotation)
		}
		attrs = append(attrs, slog.Group("annotations", annotationArgs...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// DecoratePanic converts a recovered panic value into an annotated error
// pointing at the panic site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &annotatedError{
		err:         nil,
		message:     fmt.Sprintf("panic: %v", recovered),
		annotations: nil,
		source:      panicSource(),
	}
}

// callerSource returns "file.go:line" for the caller skip frames up the stack.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// panicSource walks the stack past the recovering deferred function and the
// runtime panic machinery to find the frame that panicked.
func panicSource() string {
	const maxDepth = 64
	var pcs [maxDepth]uintptr
	n := runtime.Callers(1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var (
		sawGopanic string
		fallback   string
	)
	for {
		frame, more := frames.Next()
		file := filepath.Base(frame.File)
		inRuntime := strings.HasPrefix(frame.Function, "runtime.")
		inThisPackage := file == "annotatederror.go"
		switch {
		case frame.Function == "runtime.gopanic":
			sawGopanic = frame.Function
		case sawGopanic != "" && !inRuntime && frame.File != "":
			return fmt.Sprintf("%s:%d", file, frame.Line)
		case fallback == "" && !inRuntime && !inThisPackage && frame.File != "":
			fallback = fmt.Sprintf("%s:%d", file, frame.Line)
		}
		if !more {
			return fallback
		}
	}
}

// New returns an error with the given message. See [errors.New].
func New(message string) error {
	return errors.New(message)
}

// Is reports whether any error in err's chain matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling Unwrap on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
