// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"
)

// testCertificate issues a minimal self-signed certificate for key.
func testCertificate(t *testing.T, key crypto.Signer) *x509.Certificate {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "cert-verify-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		t.Fatal(err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}
	return cert
}

func TestCertificateVerify13EndToEnd(t *testing.T) {
	tests := []struct {
		name   string
		genKey func() (crypto.Signer, error)
		scheme SignatureScheme
	}{
		{"ECDSA-P256", func() (crypto.Signer, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		}, ECDSAWithP256AndSHA256},
		{"Ed25519", func() (crypto.Signer, error) {
			_, priv, err := ed25519.GenerateKey(rand.Reader)
			return priv, err
		}, Ed25519},
		{"RSA-PSS", func() (crypto.Signer, error) {
			return rsa.GenerateKey(rand.Reader, 2048)
		}, PSSWithSHA256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.genKey()
			if err != nil {
				t.Fatal(err)
			}
			cert := testCertificate(t, key)
			transcriptHash := bytes.Repeat([]byte{0x5c}, 32)

			msg, err := NewCertificateVerify13(defaultSupportedSignatureAlgorithms, SideClient, key,
				DefaultPolicy(), transcriptHash, DefaultCallbacks(), rand.Reader)
			if err != nil {
				t.Fatal(err)
			}
			if msg.Scheme != tt.scheme {
				t.Errorf("negotiated %v, want %v", msg.Scheme, tt.scheme)
			}

			wire, err := msg.Marshal()
			if err != nil {
				t.Fatal(err)
			}
			parsed, err := ParseCertificateVerify13(wire, SideClient)
			if err != nil {
				t.Fatal(err)
			}

			ok, err := parsed.Verify(cert, DefaultCallbacks(), transcriptHash)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Error("verification of a valid message failed")
			}

			// A transcript differing in a single byte must not verify.
			tampered := append([]byte(nil), transcriptHash...)
			tampered[7] ^= 0x01
			ok, err = parsed.Verify(cert, DefaultCallbacks(), tampered)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Error("verification succeeded against a tampered transcript")
			}
		})
	}
}

func TestCertificateVerify13SideMismatch(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	cert := testCertificate(t, key)
	transcriptHash := bytes.Repeat([]byte{0x11}, 32)

	msg, err := NewCertificateVerify13(defaultSupportedSignatureAlgorithms, SideServer, key,
		DefaultPolicy(), transcriptHash, DefaultCallbacks(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	wire, err := msg.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// Parsing under the wrong role rebuilds the wrong context string.
	parsed, err := ParseCertificateVerify13(wire, SideClient)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := parsed.Verify(cert, DefaultCallbacks(), transcriptHash)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("server signature verified under the client context string")
	}
}

// failingCallbacks fails the test if the cryptographic verify step is
// reached.
type failingCallbacks struct {
	t *testing.T
}

func (c failingCallbacks) SignMessage(crypto.Signer, io.Reader, SignatureType, crypto.Hash, []byte) ([]byte, error) {
	c.t.Fatal("SignMessage called unexpectedly")
	return nil, nil
}

func (c failingCallbacks) VerifyMessage(crypto.PublicKey, SignatureType, crypto.Hash, []byte, []byte) error {
	c.t.Fatal("VerifyMessage called before structural checks passed")
	return nil
}

func TestCertificateVerify13KeyAlgorithmMismatch(t *testing.T) {
	ecdsaKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	rsaCert := testCertificate(t, rsaKey)
	transcriptHash := bytes.Repeat([]byte{0x33}, 32)

	msg, err := NewCertificateVerify13(defaultSupportedSignatureAlgorithms, SideServer, ecdsaKey,
		DefaultPolicy(), transcriptHash, DefaultCallbacks(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	// The ECDSA scheme must be rejected against the RSA certificate
	// before any cryptographic verification happens.
	ok, err := msg.Verify(rsaCert, failingCallbacks{t}, transcriptHash)
	if ok {
		t.Error("verification succeeded with mismatched key algorithm")
	}
	var ae *AlertError
	if !errors.As(err, &ae) || ae.Alert != AlertIllegalParameter {
		t.Errorf("alert = %v, want illegal_parameter", AlertFor(err))
	}
}

func TestParseCertificateVerify13VersionIncompatibleScheme(t *testing.T) {
	m := &CertificateVerify{Scheme: PKCS1WithSHA256, Signature: make([]byte, 256)}
	wire, err := m.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	_, err = ParseCertificateVerify13(wire, SideServer)
	if err == nil {
		t.Fatal("TLS 1.3 parse accepted a TLS 1.2-only scheme")
	}
	var ae *AlertError
	if !errors.As(err, &ae) || ae.Alert != AlertIllegalParameter {
		t.Errorf("alert = %v, want illegal_parameter", AlertFor(err))
	}
}

func TestUnsafeFuzzerModeDisabledByDefault(t *testing.T) {
	if unsafeFuzzerMode {
		t.Fatal("unsafeFuzzerMode is enabled; this build must never ship")
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	cert := testCertificate(t, key)
	transcriptHash := bytes.Repeat([]byte{0x77}, 32)

	msg, err := NewCertificateVerify13(defaultSupportedSignatureAlgorithms, SideClient, key,
		DefaultPolicy(), transcriptHash, DefaultCallbacks(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	msg.Signature[0] ^= 0x01

	ok, err := msg.Verify(cert, DefaultCallbacks(), transcriptHash)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("corrupted signature verified; fuzzer bypass must be structurally absent")
	}
}
