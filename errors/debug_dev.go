//go:build debug

package errors

// DebugLoggingEnabled is true in debug builds.
// Build with -tags=debug to enable this.
const DebugLoggingEnabled = true
