// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestCertificateVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		scheme SignatureScheme
		sigLen int
	}{
		{ECDSAWithP256AndSHA256, 72},
		{ECDSAWithP521AndSHA512, 0},
		{PSSWithSHA256, 256},
		{PKCS1WithSHA1, 128},
		{Ed25519, 64},
	}
	for _, tt := range tests {
		sig := make([]byte, tt.sigLen)
		for i := range sig {
			sig[i] = byte(i)
		}
		m := &CertificateVerify{Scheme: tt.scheme, Signature: sig}
		wire, err := m.Marshal()
		if err != nil {
			t.Fatalf("%v: marshal: %v", tt.scheme, err)
		}
		if len(wire) != 4+tt.sigLen {
			t.Errorf("%v: wire length = %d, want %d", tt.scheme, len(wire), 4+tt.sigLen)
		}
		if got := binary.BigEndian.Uint16(wire); got != uint16(tt.scheme) {
			t.Errorf("%v: scheme field = %#04x", tt.scheme, got)
		}
		if got := binary.BigEndian.Uint16(wire[2:]); got != uint16(tt.sigLen) {
			t.Errorf("%v: length field = %d, want %d", tt.scheme, got, tt.sigLen)
		}

		parsed, err := ParseCertificateVerify(wire)
		if err != nil {
			t.Fatalf("%v: parse: %v", tt.scheme, err)
		}
		if parsed.Scheme != tt.scheme || !bytes.Equal(parsed.Signature, sig) {
			t.Errorf("%v: round trip mismatch", tt.scheme)
		}
		wire2, err := parsed.Marshal()
		if err != nil {
			t.Fatalf("%v: remarshal: %v", tt.scheme, err)
		}
		if !bytes.Equal(wire, wire2) {
			t.Errorf("%v: remarshal produced different bytes", tt.scheme)
		}
	}
}

func TestCertificateVerifyMarshalSignatureTooLong(t *testing.T) {
	m := &CertificateVerify{
		Scheme:    PSSWithSHA256,
		Signature: make([]byte, maxSignatureLength+1),
	}
	wire, err := m.Marshal()
	if err == nil {
		t.Fatal("marshal of oversized signature succeeded")
	}
	if wire != nil {
		t.Error("marshal of oversized signature produced output")
	}
}

func TestCertificateVerifyMarshalUnsetScheme(t *testing.T) {
	for _, scheme := range []SignatureScheme{0, 0x1234} {
		m := &CertificateVerify{Scheme: scheme, Signature: []byte{1, 2, 3}}
		if _, err := m.Marshal(); err == nil {
			t.Errorf("marshal with scheme %#04x succeeded", uint16(scheme))
		}
	}
}

func TestCertificateVerifyTrailingBytes(t *testing.T) {
	m := &CertificateVerify{Scheme: Ed25519, Signature: make([]byte, 64)}
	wire, err := m.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	bad := append(append([]byte(nil), wire...), 0x00)

	if _, err := ParseCertificateVerify(bad); err == nil {
		t.Error("legacy parse accepted trailing bytes")
	} else if AlertFor(err) != AlertDecodeError {
		t.Errorf("legacy parse alert = %v, want decode_error", AlertFor(err))
	}
	if _, err := ParseCertificateVerify13(bad, SideServer); err == nil {
		t.Error("TLS 1.3 parse accepted trailing bytes")
	} else if AlertFor(err) != AlertDecodeError {
		t.Errorf("TLS 1.3 parse alert = %v, want decode_error", AlertFor(err))
	}
}

func TestCertificateVerifyTruncated(t *testing.T) {
	m := &CertificateVerify{Scheme: ECDSAWithP256AndSHA256, Signature: make([]byte, 70)}
	wire, err := m.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for cut := 0; cut < len(wire); cut++ {
		if _, err := ParseCertificateVerify(wire[:cut]); err == nil {
			t.Errorf("parse of %d-byte prefix succeeded", cut)
		}
	}
}

func TestCertificateVerifyUnknownScheme(t *testing.T) {
	wire := []byte{0x9a, 0x9a, 0x00, 0x02, 0xde, 0xad}

	_, err := ParseCertificateVerify(wire)
	if err == nil {
		t.Fatal("legacy parse accepted unknown scheme")
	}
	if AlertFor(err) != AlertDecodeError {
		t.Errorf("legacy parse alert = %v, want decode_error", AlertFor(err))
	}

	_, err = ParseCertificateVerify13(wire, SideClient)
	if err == nil {
		t.Fatal("TLS 1.3 parse accepted unknown scheme")
	}
	if AlertFor(err) != AlertDecodeError {
		t.Errorf("TLS 1.3 parse alert = %v, want decode_error", AlertFor(err))
	}
}
