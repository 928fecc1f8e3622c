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

// SignatureType describes the padding and format a scheme signs with,
// independent of the hash.
type SignatureType uint8

const (
	SignaturePKCS1v15 SignatureType = iota + 225
	SignatureRSAPSS
	SignatureECDSA
	SignatureEd25519
)

// directSigning is a standard Hash value that signals that no
// pre-hashing should be performed before signing (Ed25519 signs the
// message itself).
const directSigning crypto.Hash = 0

// signatureSchemeInfo is the registry record behind a SignatureScheme
// wire code. curve is non-nil when TLS 1.3 pins the scheme to a single
// ECDSA curve. minModulusBytes is the smallest RSA modulus the scheme's
// padding fits into, zero for non-RSA schemes.
type signatureSchemeInfo struct {
	sigType         SignatureType
	hash            crypto.Hash
	curve           elliptic.Curve
	minModulusBytes int
	minVersion      uint16
	maxVersion      uint16
}

// signatureSchemeRegistry maps every wire code this package knows to
// its record. A code absent from the registry parses as an unset
// scheme; it never fails at parse time.
//
// RSA-PSS is used with PSSSaltLengthEqualsHash and requires
// emLen >= hLen + sLen + 2. PKCS #1 v1.5 uses the DigestInfo prefixes
// from crypto/rsa and requires emLen >= len(prefix) + hLen + 11.
// TLS 1.3 dropped PKCS #1 v1.5 in favor of RSA-PSS.
var signatureSchemeRegistry = map[SignatureScheme]signatureSchemeInfo{
	PSSWithSHA256: {SignatureRSAPSS, crypto.SHA256, nil, crypto.SHA256.Size()*2 + 2, VersionTLS12, VersionTLS13},
	PSSWithSHA384: {SignatureRSAPSS, crypto.SHA384, nil, crypto.SHA384.Size()*2 + 2, VersionTLS12, VersionTLS13},
	PSSWithSHA512: {SignatureRSAPSS, crypto.SHA512, nil, crypto.SHA512.Size()*2 + 2, VersionTLS12, VersionTLS13},

	PKCS1WithSHA256: {SignaturePKCS1v15, crypto.SHA256, nil, 19 + crypto.SHA256.Size() + 11, VersionTLS10, VersionTLS12},
	PKCS1WithSHA384: {SignaturePKCS1v15, crypto.SHA384, nil, 19 + crypto.SHA384.Size() + 11, VersionTLS10, VersionTLS12},
	PKCS1WithSHA512: {SignaturePKCS1v15, crypto.SHA512, nil, 19 + crypto.SHA512.Size() + 11, VersionTLS10, VersionTLS12},
	PKCS1WithSHA1:   {SignaturePKCS1v15, crypto.SHA1, nil, 15 + crypto.SHA1.Size() + 11, VersionTLS10, VersionTLS12},

	ECDSAWithP256AndSHA256: {SignatureECDSA, crypto.SHA256, elliptic.P256(), 0, VersionTLS10, VersionTLS13},
	ECDSAWithP384AndSHA384: {SignatureECDSA, crypto.SHA384, elliptic.P384(), 0, VersionTLS10, VersionTLS13},
	ECDSAWithP521AndSHA512: {SignatureECDSA, crypto.SHA512, elliptic.P521(), 0, VersionTLS10, VersionTLS13},
	ECDSAWithSHA1:          {SignatureECDSA, crypto.SHA1, nil, 0, VersionTLS10, VersionTLS12},

	Ed25519: {SignatureEd25519, directSigning, nil, 0, VersionTLS12, VersionTLS13},
}

// isSet reports whether the scheme carries a known, non-zero wire code.
// A signature must never be produced or serialized under an unset
// scheme.
func (s SignatureScheme) isSet() bool {
	_, ok := signatureSchemeRegistry[s]
	return s != 0 && ok
}

// isAvailable reports whether the scheme's primitives are linked into
// the running build.
func (s SignatureScheme) isAvailable() bool {
	info, ok := signatureSchemeRegistry[s]
	if !ok {
		return false
	}
	return info.hash == directSigning || info.hash.Available()
}

// compatibleWith reports whether the scheme may be used under the given
// protocol version.
func (s SignatureScheme) compatibleWith(vers uint16) bool {
	info, ok := signatureSchemeRegistry[s]
	if !ok {
		return false
	}
	return info.minVersion <= vers && vers <= info.maxVersion
}

// suitableForKey reports whether the scheme can produce signatures with
// the given private key under the given protocol version. For RSA this
// enforces the minimum modulus the padding needs; for ECDSA under
// TLS 1.3 the key's curve must match the scheme's pinned curve.
func (s SignatureScheme) suitableForKey(key crypto.Signer, vers uint16) bool {
	info, ok := signatureSchemeRegistry[s]
	if !ok || !s.compatibleWith(vers) {
		return false
	}
	switch pub := key.Public().(type) {
	case *rsa.PublicKey:
		if info.sigType != SignaturePKCS1v15 && info.sigType != SignatureRSAPSS {
			return false
		}
		return pub.Size() >= info.minModulusBytes
	case *ecdsa.PublicKey:
		if info.sigType != SignatureECDSA {
			return false
		}
		if vers == VersionTLS13 {
			return info.curve != nil && pub.Curve == info.curve
		}
		// In TLS 1.2 and earlier, ECDSA algorithms are not
		// constrained to a single curve.
		return true
	case ed25519.PublicKey:
		return info.sigType == SignatureEd25519
	default:
		return false
	}
}

// matchesPublicKey reports whether the scheme's key algorithm matches
// the given public key. RFC 8446, Section 4.2.3: keys found in
// certificates MUST be of appropriate type for the signature algorithms
// they are used with.
func (s SignatureScheme) matchesPublicKey(pub crypto.PublicKey) bool {
	info, ok := signatureSchemeRegistry[s]
	if !ok {
		return false
	}
	switch pub := pub.(type) {
	case *rsa.PublicKey:
		return info.sigType == SignaturePKCS1v15 || info.sigType == SignatureRSAPSS
	case *ecdsa.PublicKey:
		if info.sigType != SignatureECDSA {
			return false
		}
		return info.curve == nil || pub.Curve == info.curve
	case ed25519.PublicKey:
		return info.sigType == SignatureEd25519
	default:
		return false
	}
}

// typeAndHashFromSignatureScheme returns the signature type and
// crypto.Hash for a given TLS SignatureScheme.
func typeAndHashFromSignatureScheme(signatureAlgorithm SignatureScheme) (sigType SignatureType, hash crypto.Hash, err error) {
	info, ok := signatureSchemeRegistry[signatureAlgorithm]
	if !ok {
		return 0, 0, tlserrors.New("tls: unsupported signature algorithm: ", signatureAlgorithm).AtError()
	}
	return info.sigType, info.hash, nil
}

const (
	serverSignatureContext = "TLS 1.3, server CertificateVerify\x00"
	clientSignatureContext = "TLS 1.3, client CertificateVerify\x00"
)

var signaturePadding = []byte{
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
	0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20,
}

// signedMessage builds the exact content signed by certificate keys in
// TLS 1.3: 64 bytes of 0x20, the role-dependent context string, a NUL
// separator, then the raw transcript hash. See RFC 8446, Section 4.4.3.
// The context constants above carry the NUL.
func signedMessage(side Side, transcriptHash []byte) []byte {
	context := clientSignatureContext
	if side == SideServer {
		context = serverSignatureContext
	}
	b := make([]byte, 0, len(signaturePadding)+len(context)+len(transcriptHash))
	b = append(b, signaturePadding...)
	b = append(b, context...)
	b = append(b, transcriptHash...)
	return b
}

type defaultCallbacks struct{}

func (defaultCallbacks) SignMessage(key crypto.Signer, rand io.Reader, sigType SignatureType, sigHash crypto.Hash, message []byte) ([]byte, error) {
	signed := message
	if sigHash != directSigning {
		h := sigHash.New()
		h.Write(message)
		signed = h.Sum(nil)
	}
	signOpts := crypto.SignerOpts(sigHash)
	if sigType == SignatureRSAPSS {
		signOpts = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: sigHash}
	}
	return key.Sign(rand, signed, signOpts)
}

func (defaultCallbacks) VerifyMessage(pub crypto.PublicKey, sigType SignatureType, sigHash crypto.Hash, message, sig []byte) error {
	signed := message
	if sigHash != directSigning {
		h := sigHash.New()
		h.Write(message)
		signed = h.Sum(nil)
	}
	return verifyHandshakeSignature(sigType, pub, sigHash, signed, sig)
}

// verifyHandshakeSignature verifies a signature against pre-hashed
// (if required) handshake contents.
func verifyHandshakeSignature(sigType SignatureType, pubkey crypto.PublicKey, hashFunc crypto.Hash, signed, sig []byte) error {
	if tlserrors.DebugLoggingEnabled {
		tlserrors.LogDebug("tls: verifying signature type: ", sigType)
	}

	switch sigType {
	case SignatureECDSA:
		pubKey, ok := pubkey.(*ecdsa.PublicKey)
		if !ok {
			return tlserrors.New("tls: expected an ECDSA public key, got ", fmt.Sprintf("%T", pubkey)).AtError()
		}
		if !ecdsa.VerifyASN1(pubKey, signed, sig) {
			return tlserrors.New("tls: ECDSA verification failure").AtError()
		}
	case SignatureEd25519:
		pubKey, ok := pubkey.(ed25519.PublicKey)
		if !ok {
			return tlserrors.New("tls: expected an Ed25519 public key, got ", fmt.Sprintf("%T", pubkey)).AtError()
		}
		if !ed25519.Verify(pubKey, signed, sig) {
			return tlserrors.New("tls: Ed25519 verification failure").AtError()
		}
	case SignaturePKCS1v15:
		pubKey, ok := pubkey.(*rsa.PublicKey)
		if !ok {
			return tlserrors.New("tls: expected an RSA public key, got ", fmt.Sprintf("%T", pubkey)).AtError()
		}
		if err := rsa.VerifyPKCS1v15(pubKey, hashFunc, signed, sig); err != nil {
			return tlserrors.New("tls: RSA PKCS1v15 verification failure").Base(err).AtError()
		}
	case SignatureRSAPSS:
		pubKey, ok := pubkey.(*rsa.PublicKey)
		if !ok {
			return tlserrors.New("tls: expected an RSA public key, got ", fmt.Sprintf("%T", pubkey)).AtError()
		}
		signOpts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash}
		if err := rsa.VerifyPSS(pubKey, hashFunc, signed, sig, signOpts); err != nil {
			return tlserrors.New("tls: RSA-PSS verification failure").Base(err).AtError()
		}
	default:
		return tlserrors.New("tls: internal error: unknown signature type ", sigType).AtError()
	}

	if tlserrors.DebugLoggingEnabled {
		tlserrors.LogDebug("tls: signature verified successfully")
	}
	return nil
}
