// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

// ParseCertificateVerify deserializes a TLS 1.2 CertificateVerify
// message body. A scheme code that matches no registry entry is a
// decoding failure for this variant: there is no valid-but-empty state.
func ParseCertificateVerify(data []byte) (*CertificateVerify, error) {
	m := new(CertificateVerify)
	if err := m.unmarshal(data); err != nil {
		return nil, err
	}
	if !m.Scheme.isSet() {
		return nil, alertError(AlertDecodeError, "tls: counterparty did not send hash/sig IDs")
	}
	return m, nil
}

// ParseCertificateVerify13 deserializes a TLS 1.3 CertificateVerify
// message body. side is the role of the sender, which fixes the context
// string used when the signature is later verified.
//
// Failure kinds are distinct and must stay distinct: an unset scheme is
// a decoding failure, a known scheme whose primitives are missing from
// this build is a handshake failure, and a scheme that exists but is
// not usable under TLS 1.3 is an illegal parameter.
func ParseCertificateVerify13(data []byte, side Side) (*CertificateVerify13, error) {
	var m CertificateVerify13
	if err := m.unmarshal(data); err != nil {
		return nil, err
	}
	if !m.Scheme.isSet() {
		return nil, alertError(AlertDecodeError, "tls: counterparty did not send hash/sig IDs")
	}
	if !m.Scheme.isAvailable() {
		return nil, alertError(AlertHandshakeFailure, "tls: peer sent unknown signature scheme ", m.Scheme)
	}
	if !m.Scheme.compatibleWith(VersionTLS13) {
		return nil, alertError(AlertIllegalParameter, "tls: peer sent signature algorithm ", m.Scheme, " that is not suitable for TLS 1.3")
	}
	m.Side = side
	return &m, nil
}
