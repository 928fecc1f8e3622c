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

// CertificateVerify13 is the TLS 1.3 variant of the CertificateVerify
// message. It additionally records which side produced the signature,
// which selects the context string of the signed content.
type CertificateVerify13 struct {
	CertificateVerify

	Side Side
}

// NewCertificateVerify13 constructs a CertificateVerify for sending in
// a TLS 1.3 handshake. The scheme is negotiated from the policy's
// preference order against the peer's advertised list, the signed
// content is built from the transcript hash snapshot, and the signing
// capability produces the signature.
func NewCertificateVerify13(peerSchemes []SignatureScheme, side Side, key crypto.Signer, policy Policy, transcriptHash []byte, cb Callbacks, rand io.Reader) (*CertificateVerify13, error) {
	scheme, err := negotiateSignatureScheme(policy.AllowedSignatureSchemes(), key, peerSchemes)
	if err != nil {
		return nil, err
	}
	sigType, sigHash, err := typeAndHashFromSignatureScheme(scheme)
	if err != nil {
		return nil, err
	}
	if tlserrors.DebugLoggingEnabled {
		tlserrors.LogDebug("tls: selected signature scheme: ", scheme)
	}

	sig, err := cb.SignMessage(key, rand, sigType, sigHash, signedMessage(side, transcriptHash))
	if err != nil {
		return nil, tlserrors.New("tls: failed to sign handshake").Base(err).AtError()
	}
	return &CertificateVerify13{
		CertificateVerify: CertificateVerify{Scheme: scheme, Signature: sig},
		Side:              side,
	}, nil
}

// Verify checks the message's signature against the peer certificate
// and transcript hash snapshot. The boolean is the cryptographic
// outcome; the error reports protocol violations that must abort the
// handshake before any cryptographic verification is attempted.
//
// A scheme whose key algorithm does not match the certificate's key is
// rejected up front. RFC 8446, Section 4.2.3: the keys found in
// certificates MUST be of appropriate type for the signature algorithms
// they are used with.
func (m *CertificateVerify13) Verify(cert *x509.Certificate, cb Callbacks, transcriptHash []byte) (bool, error) {
	if !m.Scheme.matchesPublicKey(cert.PublicKey) {
		return false, alertError(AlertIllegalParameter, "tls: signature algorithm ", m.Scheme, " does not match certificate's public key")
	}
	sigType, sigHash, err := typeAndHashFromSignatureScheme(m.Scheme)
	if err != nil {
		return false, &AlertError{Alert: AlertInternalError, Err: err}
	}

	verifyErr := cb.VerifyMessage(cert.PublicKey, sigType, sigHash, signedMessage(m.Side, transcriptHash), m.Signature)
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
