//go:build !unsafe_fuzzer_mode

package tls

// unsafeFuzzerMode is false in normal and release builds: verification
// results are always the real cryptographic outcome.
const unsafeFuzzerMode = false
