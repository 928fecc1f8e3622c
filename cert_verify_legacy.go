// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"crypto"
	"crypto/x509"
	"io"

	tlserrors "github.com/thepaul/botan/errors"
)

// FormatNegotiator resolves the concrete signing format for the legacy
// (pre-1.3) CertificateVerify flows: which scheme to sign with on the
// sending side, and which padding and hash a received scheme implies on
// the verifying side. The TLS 1.3 flow never consults it; scheme
// selection there is negotiateSignatureScheme.
type FormatNegotiator interface {
	// ChooseFormat picks the scheme for an outbound CertificateVerify
	// given the private key, the protocol version, the peer's advertised
	// scheme list and the local policy.
	ChooseFormat(key crypto.Signer, vers uint16, peerSchemes []SignatureScheme, policy Policy) (SignatureScheme, SignatureType, crypto.Hash, error)

	// ParseFormat resolves the format of a received scheme against the
	// peer's public key, the schemes the peer advertised, the protocol
	// version and the local policy.
	ParseFormat(pub crypto.PublicKey, scheme SignatureScheme, peerSchemes []SignatureScheme, vers uint16, policy Policy) (SignatureType, crypto.Hash, error)
}

// defaultFormatNegotiator maps schemes through the registry: TLS 1.2
// scheme codes carry their own hash and padding.
type defaultFormatNegotiator struct{}

// DefaultFormatNegotiator returns the built-in legacy format
// negotiation.
func DefaultFormatNegotiator() FormatNegotiator {
	return defaultFormatNegotiator{}
}

func (defaultFormatNegotiator) ChooseFormat(key crypto.Signer, vers uint16, peerSchemes []SignatureScheme, policy Policy) (SignatureScheme, SignatureType, crypto.Hash, error) {
	scheme, err := selectLegacySignatureScheme(vers, policy.AllowedSignatureSchemes(), key, peerSchemes)
	if err != nil {
		return 0, 0, 0, err
	}
	sigType, sigHash, err := typeAndHashFromSignatureScheme(scheme)
	if err != nil {
		return 0, 0, 0, err
	}
	return scheme, sigType, sigHash, nil
}

func (defaultFormatNegotiator) ParseFormat(pub crypto.PublicKey, scheme SignatureScheme, peerSchemes []SignatureScheme, vers uint16, policy Policy) (SignatureType, crypto.Hash, error) {
	if !scheme.isSet() {
		return 0, 0, alertError(AlertDecodeError, "tls: counterparty did not send hash/sig IDs")
	}
	if !scheme.compatibleWith(vers) {
		return 0, 0, alertError(AlertIllegalParameter, "tls: peer sent signature algorithm ", scheme, " that is not suitable for the negotiated version")
	}
	if len(peerSchemes) > 0 && !isSupportedSignatureAlgorithm(scheme, peerSchemes) {
		return 0, 0, alertError(AlertIllegalParameter, "tls: peer signed with scheme ", scheme, " it did not advertise")
	}
	if !isSupportedSignatureAlgorithm(scheme, policy.AllowedSignatureSchemes()) {
		return 0, 0, alertError(AlertHandshakeFailure, "tls: peer signed with scheme ", scheme, " forbidden by local policy")
	}
	if !scheme.matchesPublicKey(pub) {
		return 0, 0, alertError(AlertIllegalParameter, "tls: signature algorithm ", scheme, " does not match certificate's public key")
	}
	return typeAndHashFromSignatureScheme(scheme)
}

// NewCertificateVerify constructs a CertificateVerify for sending in a
// TLS 1.2 handshake. The signature covers the transcript's accumulated
// contents. The serialized message is appended to the transcript before
// returning, so signatures in subsequent messages cover this one; the
// append must happen before any other message is processed.
func NewCertificateVerify(key crypto.Signer, vers uint16, peerSchemes []SignatureScheme, policy Policy, fn FormatNegotiator, transcript Transcript, cb Callbacks, rand io.Reader) (*CertificateVerify, error) {
	scheme, sigType, sigHash, err := fn.ChooseFormat(key, vers, peerSchemes, policy)
	if err != nil {
		return nil, err
	}

	sig, err := cb.SignMessage(key, rand, sigType, sigHash, transcript.CurrentHash())
	if err != nil {
		return nil, tlserrors.New("tls: failed to sign handshake").Base(err).AtError()
	}

	m := &CertificateVerify{Scheme: scheme, Signature: sig}
	wire, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	transcript.Append(wire)
	return m, nil
}

// Verify checks a received TLS 1.2 CertificateVerify against the peer
// certificate and the handshake transcript. The boolean is the
// cryptographic outcome; errors report key-acceptability and format
// violations, which are fatal before any cryptographic verification.
func (m *CertificateVerify) Verify(cert *x509.Certificate, vers uint16, peerSchemes []SignatureScheme, policy Policy, fn FormatNegotiator, transcript Transcript, cb Callbacks) (bool, error) {
	pub := cert.PublicKey
	if err := policy.CheckPeerKeyAcceptable(pub); err != nil {
		return false, &AlertError{Alert: AlertBadCertificate, Err: err}
	}

	sigType, sigHash, err := fn.ParseFormat(pub, m.Scheme, peerSchemes, vers, policy)
	if err != nil {
		return false, err
	}

	verifyErr := cb.VerifyMessage(pub, sigType, sigHash, transcript.CurrentHash(), m.Signature)
	if unsafeFuzzerMode {
		return true, nil
	}
	if verifyErr != nil {
		if tlserrors.DebugLoggingEnabled {
			tlserrors.LogDebug("tls: CertificateVerify signature rejected: ", verifyErr)
		}
		return false, nil
	}
	return true, nil
}
