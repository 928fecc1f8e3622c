// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"golang.org/x/crypto/cryptobyte"

	tlserrors "github.com/thepaul/botan/errors"
)

// maxSignatureLength is the largest signature the wire format can
// carry; the length field is 16 bits.
const maxSignatureLength = 0xFFFF

// CertificateVerify is the CertificateVerify handshake message body:
// a 16-bit signature scheme code followed by an opaque signature of at
// most 65535 bytes. The byte layout is shared between the TLS 1.2 and
// TLS 1.3 variants; see CertificateVerify13 for the latter.
//
// The message references transcript and key material only transiently
// during construction or verification; it never retains either.
type CertificateVerify struct {
	raw []byte

	Scheme    SignatureScheme
	Signature []byte
}

// Marshal serializes the message body. It refuses to serialize an
// unset scheme or a signature that does not fit the 16-bit length
// field; nothing is produced in either case.
func (m *CertificateVerify) Marshal() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	if !m.Scheme.isSet() {
		return nil, tlserrors.New("tls: refusing to serialize CertificateVerify with unset signature scheme").AtError()
	}
	if len(m.Signature) > maxSignatureLength {
		return nil, tlserrors.New("tls: CertificateVerify signature too long to encode: ", len(m.Signature), " bytes").AtError()
	}

	var b cryptobyte.Builder
	b.AddUint16(uint16(m.Scheme))
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.Signature)
	})

	var err error
	m.raw, err = b.Bytes()
	return m.raw, err
}

// unmarshal parses the shared wire layout. Trailing bytes after the
// signature are a decoding failure. An unknown scheme code parses into
// an unset scheme; the per-variant parse entry points decide how fatal
// that is.
func (m *CertificateVerify) unmarshal(data []byte) error {
	*m = CertificateVerify{raw: data}
	s := cryptobyte.String(data)

	var scheme uint16
	var sig cryptobyte.String
	if !s.ReadUint16(&scheme) || !s.ReadUint16LengthPrefixed(&sig) {
		return alertError(AlertDecodeError, "tls: CertificateVerify message truncated")
	}
	if !s.Empty() {
		return alertError(AlertDecodeError, "tls: CertificateVerify message not fully consumed, ", len(s), " trailing bytes")
	}

	m.Scheme = SignatureScheme(scheme)
	m.Signature = append([]byte(nil), sig...)
	return nil
}
