// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"
	"io"

	tlserrors "github.com/thepaul/botan/errors"
)

const (
	VersionTLS10 = 0x0301
	VersionTLS11 = 0x0302
	VersionTLS12 = 0x0303
	VersionTLS13 = 0x0304
)

// Side identifies which end of the connection the local endpoint is,
// which determines the context string embedded in the TLS 1.3
// CertificateVerify signed content.
type Side uint8

const (
	SideClient Side = 1
	SideServer Side = 2
)

func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// SignatureScheme identifies a signature algorithm supported by TLS. See
// RFC 8446, Section 4.2.3.
type SignatureScheme uint16

const (
	// RSASSA-PKCS1-v1_5 algorithms.
	PKCS1WithSHA256 SignatureScheme = 0x0401
	PKCS1WithSHA384 SignatureScheme = 0x0501
	PKCS1WithSHA512 SignatureScheme = 0x0601

	// RSASSA-PSS algorithms with public key OID rsaEncryption.
	PSSWithSHA256 SignatureScheme = 0x0804
	PSSWithSHA384 SignatureScheme = 0x0805
	PSSWithSHA512 SignatureScheme = 0x0806

	// ECDSA algorithms. Only constrained to a specific curve in TLS 1.3.
	ECDSAWithP256AndSHA256 SignatureScheme = 0x0403
	ECDSAWithP384AndSHA384 SignatureScheme = 0x0503
	ECDSAWithP521AndSHA512 SignatureScheme = 0x0603

	// EdDSA algorithms.
	Ed25519 SignatureScheme = 0x0807

	// Legacy signature and hash algorithms for TLS 1.2.
	PKCS1WithSHA1 SignatureScheme = 0x0201
	ECDSAWithSHA1 SignatureScheme = 0x0203
)

func (s SignatureScheme) String() string {
	switch s {
	case PKCS1WithSHA256:
		return "PKCS1WithSHA256"
	case PKCS1WithSHA384:
		return "PKCS1WithSHA384"
	case PKCS1WithSHA512:
		return "PKCS1WithSHA512"
	case PSSWithSHA256:
		return "PSSWithSHA256"
	case PSSWithSHA384:
		return "PSSWithSHA384"
	case PSSWithSHA512:
		return "PSSWithSHA512"
	case ECDSAWithP256AndSHA256:
		return "ECDSAWithP256AndSHA256"
	case ECDSAWithP384AndSHA384:
		return "ECDSAWithP384AndSHA384"
	case ECDSAWithP521AndSHA512:
		return "ECDSAWithP521AndSHA512"
	case Ed25519:
		return "Ed25519"
	case PKCS1WithSHA1:
		return "PKCS1WithSHA1"
	case ECDSAWithSHA1:
		return "ECDSAWithSHA1"
	default:
		return fmt.Sprintf("SignatureScheme(0x%04x)", uint16(s))
	}
}

// defaultSupportedSignatureAlgorithms is the preference order used by
// the default policy. Contains all schemes this package can produce or
// verify, strongest first.
var defaultSupportedSignatureAlgorithms = []SignatureScheme{
	ECDSAWithP256AndSHA256,
	Ed25519,
	ECDSAWithP384AndSHA384,
	ECDSAWithP521AndSHA512,
	PSSWithSHA256,
	PSSWithSHA384,
	PSSWithSHA512,
	PKCS1WithSHA256,
	PKCS1WithSHA384,
	PKCS1WithSHA512,
	PKCS1WithSHA1,
	ECDSAWithSHA1,
}

func isSupportedSignatureAlgorithm(sigAlg SignatureScheme, supportedSignatureAlgorithms []SignatureScheme) bool {
	for _, s := range supportedSignatureAlgorithms {
		if s == sigAlg {
			return true
		}
	}
	return false
}

// Policy decides which signature schemes the local endpoint is willing
// to use and whether a peer's key is acceptable. The order returned by
// AllowedSignatureSchemes is the local preference order used during
// negotiation.
type Policy interface {
	AllowedSignatureSchemes() []SignatureScheme
	CheckPeerKeyAcceptable(pub crypto.PublicKey) error
}

// defaultPolicy allows every scheme this package implements and
// requires peer keys of contemporary strength.
type defaultPolicy struct{}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return defaultPolicy{}
}

func (defaultPolicy) AllowedSignatureSchemes() []SignatureScheme {
	return defaultSupportedSignatureAlgorithms
}

const minimumRSABits = 2048

func (defaultPolicy) CheckPeerKeyAcceptable(pub crypto.PublicKey) error {
	switch pub := pub.(type) {
	case *rsa.PublicKey:
		if pub.N.BitLen() < minimumRSABits {
			return tlserrors.New("tls: peer RSA key of ", pub.N.BitLen(), " bits is below the ", minimumRSABits, " bit minimum").AtError()
		}
		return nil
	case *ecdsa.PublicKey:
		switch pub.Curve {
		case elliptic.P256(), elliptic.P384(), elliptic.P521():
			return nil
		}
		return tlserrors.New("tls: peer ECDSA key uses unsupported curve ", pub.Curve.Params().Name).AtError()
	case ed25519.PublicKey:
		return nil
	default:
		return tlserrors.New("tls: peer key of unsupported type ", fmt.Sprintf("%T", pub)).AtError()
	}
}

// Transcript is the externally owned handshake transcript accumulator
// consumed by the legacy construction and verification flows.
// CurrentHash returns the accumulated handshake content that signatures
// cover; Append feeds a serialized outbound message back into the
// accumulator so later signatures cover it.
type Transcript interface {
	CurrentHash() []byte
	Append(data []byte)
}

// Callbacks performs the actual asymmetric operations on behalf of this
// package. The message passed in is the raw signed content; the
// implementation hashes it with sigHash when the scheme requires
// pre-hashing (every scheme except Ed25519).
//
// VerifyMessage reports a cryptographic mismatch through its error
// result; the flows fold that into a boolean outcome rather than
// surfacing it as a fatal error.
type Callbacks interface {
	SignMessage(key crypto.Signer, rand io.Reader, sigType SignatureType, sigHash crypto.Hash, message []byte) ([]byte, error)
	VerifyMessage(pub crypto.PublicKey, sigType SignatureType, sigHash crypto.Hash, message, sig []byte) error
}

// DefaultCallbacks signs with crypto.Signer and verifies with the
// rsa/ecdsa/ed25519 packages.
func DefaultCallbacks() Callbacks {
	return defaultCallbacks{}
}
