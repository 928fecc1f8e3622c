//go:build unsafe_fuzzer_mode

package tls

// unsafeFuzzerMode forces every CertificateVerify verification result
// to true so fuzzing harnesses can exercise the post-verification
// handshake paths with arbitrary signatures. Never enable this outside
// a fuzzing build; it disables the proof of key possession entirely.
// Build with -tags=unsafe_fuzzer_mode.
const unsafeFuzzerMode = true
