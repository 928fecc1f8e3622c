// Package errors provides structured error handling and leveled logging
// for the TLS handshake message core. Errors are chainable, remember the
// function that created them, and can optionally carry a stack trace.
package errors

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
)

const trim = len("github.com/thepaul/botan/")

// Severity of a log message or error. Lower value is more severe.
type Severity int32

const (
	SeverityUnknown Severity = 0
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
	SeverityInfo    Severity = 3
	SeverityDebug   Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	case SeverityDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// globalLogLevel stores the current log level for cheap early-exit checks.
var globalLogLevel atomic.Int32

// logWriter is the output destination for logs (default: stderr).
var logWriter atomic.Value

func init() {
	globalLogLevel.Store(int32(SeverityWarning))
	logWriter.Store(io.Writer(os.Stderr))
}

// SetLogLevel sets the minimum severity level for logging.
func SetLogLevel(s Severity) {
	globalLogLevel.Store(int32(s))
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(globalLogLevel.Load())
}

// SetLogWriter sets the output writer for logs. Passing nil reverts to
// stderr.
func SetLogWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logWriter.Store(w)
}

// ShouldLog returns true if messages at the given severity should be
// logged under the current level.
func ShouldLog(severity Severity) bool {
	return severity <= Severity(globalLogLevel.Load())
}

type hasSeverity interface {
	Severity() Severity
}

// Error is a structured error with context, chaining, and an optional
// stack trace.
type Error struct {
	message  []interface{}
	caller   string
	inner    error
	severity Severity
	stack    []uintptr
}

// Error implements error.Error().
func (err *Error) Error() string {
	builder := strings.Builder{}
	if len(err.caller) > 0 {
		builder.WriteString(err.caller)
		builder.WriteString(": ")
	}
	builder.WriteString(fmt.Sprint(err.message...))

	if err.inner != nil {
		builder.WriteString(" > ")
		builder.WriteString(err.inner.Error())
	}

	if len(err.stack) > 0 {
		builder.WriteString("\nStack trace:\n")
		frames := runtime.CallersFrames(err.stack)
		frameNum := 0
		for {
			frame, more := frames.Next()
			if frame.Function == "" {
				break
			}
			funcName := frame.Function
			if len(funcName) >= trim {
				funcName = funcName[trim:]
			}
			fileName := frame.File
			if idx := strings.LastIndex(fileName, "/"); idx >= 0 {
				fileName = fileName[idx+1:]
			}
			fmt.Fprintf(&builder, "  #%d %s (%s:%d)\n", frameNum, funcName, fileName, frame.Line)
			frameNum++
			if !more {
				break
			}
		}
	}

	return builder.String()
}

// Unwrap returns the inner error, if any.
func (err *Error) Unwrap() error {
	return err.inner
}

// Base sets the inner error.
func (err *Error) Base(e error) *Error {
	err.inner = e
	return err
}

func (err *Error) atSeverity(s Severity) *Error {
	err.severity = s
	return err
}

// Severity returns the error's severity level. An inner error with a
// higher severity (lower value) wins.
func (err *Error) Severity() Severity {
	if err.inner == nil {
		return err.severity
	}
	if s, ok := err.inner.(hasSeverity); ok {
		if as := s.Severity(); as < err.severity {
			return as
		}
	}
	return err.severity
}

// AtDebug sets the severity to debug.
func (err *Error) AtDebug() *Error {
	return err.atSeverity(SeverityDebug)
}

// AtInfo sets the severity to info.
func (err *Error) AtInfo() *Error {
	return err.atSeverity(SeverityInfo)
}

// AtWarning sets the severity to warning.
func (err *Error) AtWarning() *Error {
	return err.atSeverity(SeverityWarning)
}

// AtError sets the severity to error.
func (err *Error) AtError() *Error {
	return err.atSeverity(SeverityError)
}

// WithStack captures a stack trace for detailed debugging.
func (err *Error) WithStack() *Error {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	if n > 0 {
		err.stack = make([]uintptr, n)
		copy(err.stack, pcs[:n])
	}
	return err
}

// New returns a new error object with message formed from given
// arguments. The calling function's name is recorded.
func New(msg ...interface{}) *Error {
	pc, _, _, _ := runtime.Caller(1)
	details := runtime.FuncForPC(pc).Name()
	if len(details) >= trim {
		details = details[trim:]
	}
	return &Error{
		message:  msg,
		severity: SeverityInfo,
		caller:   details,
	}
}

func writeLog(severity Severity, msg ...interface{}) {
	if !ShouldLog(severity) {
		return
	}
	w, _ := logWriter.Load().(io.Writer)
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", severity, fmt.Sprint(msg...))
}

// LogDebug logs a debug message. Call sites should be guarded by
// DebugLoggingEnabled so release builds pay nothing.
func LogDebug(msg ...interface{}) {
	if !DebugLoggingEnabled {
		return
	}
	writeLog(SeverityDebug, msg...)
}

// LogInfo logs an informational message.
func LogInfo(msg ...interface{}) {
	writeLog(SeverityInfo, msg...)
}

// LogWarning logs a warning message.
func LogWarning(msg ...interface{}) {
	writeLog(SeverityWarning, msg...)
}

// LogError logs an error message.
func LogError(msg ...interface{}) {
	writeLog(SeverityError, msg...)
}
