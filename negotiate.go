// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"crypto"
)

// negotiateSignatureScheme picks the signature scheme for a TLS 1.3
// CertificateVerify: the first scheme in local preference order that is
// available in this build, suitable for the private key, and present in
// the peer's advertised list. The peer's ordering is never consulted.
// Deterministic given its inputs.
func negotiateSignatureScheme(localPrefs []SignatureScheme, key crypto.Signer, peerSchemes []SignatureScheme) (SignatureScheme, error) {
	for _, scheme := range localPrefs {
		if !scheme.isAvailable() {
			continue
		}
		if !scheme.suitableForKey(key, VersionTLS13) {
			continue
		}
		if !isSupportedSignatureAlgorithm(scheme, peerSchemes) {
			continue
		}
		return scheme, nil
	}
	return 0, alertError(AlertHandshakeFailure, "tls: failed to agree on a signature algorithm")
}

// selectLegacySignatureScheme picks the scheme for a TLS 1.2
// CertificateVerify. A TLS 1.2 peer that sent no signature_algorithms
// extension is assumed to support SHA1, see RFC 5246, Section 7.4.1.4.1.
// Local preference order wins, as in negotiateSignatureScheme.
func selectLegacySignatureScheme(vers uint16, localPrefs []SignatureScheme, key crypto.Signer, peerSchemes []SignatureScheme) (SignatureScheme, error) {
	if len(peerSchemes) == 0 && vers == VersionTLS12 {
		peerSchemes = []SignatureScheme{PKCS1WithSHA1, ECDSAWithSHA1}
	}
	for _, scheme := range localPrefs {
		if !scheme.isAvailable() {
			continue
		}
		if !scheme.suitableForKey(key, vers) {
			continue
		}
		if !isSupportedSignatureAlgorithm(scheme, peerSchemes) {
			continue
		}
		return scheme, nil
	}
	return 0, alertError(AlertHandshakeFailure, "tls: peer doesn't support any of the key's signature algorithms")
}
