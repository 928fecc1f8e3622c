// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/cryptobyte"

	tlserrors "github.com/thepaul/botan/errors"
)

// CertCompressionAlgo is a certificate compression algorithm, RFC 8879.
type CertCompressionAlgo uint16

const (
	CertCompressionZlib   CertCompressionAlgo = 0x0001
	CertCompressionBrotli CertCompressionAlgo = 0x0002
	CertCompressionZstd   CertCompressionAlgo = 0x0003
)

// maxUncompressedCertSize bounds the declared uncompressed length.
// The field is a uint24, so 16MB is the protocol maximum; most
// certificate chains are under 100KB.
const maxUncompressedCertSize = 1 << 24

// CompressedCertificate is the CompressedCertificate handshake message
// body, RFC 8879, Section 4. The payload is the marshaled Certificate
// message body, treated as opaque bytes here.
type CompressedCertificate struct {
	raw []byte

	Algorithm          CertCompressionAlgo
	UncompressedLength uint32
	CompressedPayload  []byte
}

func (m *CompressedCertificate) Marshal() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	var b cryptobyte.Builder
	b.AddUint16(uint16(m.Algorithm))
	b.AddUint24(m.UncompressedLength)
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.CompressedPayload)
	})

	var err error
	m.raw, err = b.Bytes()
	return m.raw, err
}

// ParseCompressedCertificate deserializes a CompressedCertificate
// message body. Trailing bytes are a decoding failure.
func ParseCompressedCertificate(data []byte) (*CompressedCertificate, error) {
	m := &CompressedCertificate{raw: data}
	s := cryptobyte.String(data)

	var alg uint16
	var payload cryptobyte.String
	if !s.ReadUint16(&alg) ||
		!s.ReadUint24(&m.UncompressedLength) ||
		!s.ReadUint24LengthPrefixed(&payload) {
		return nil, alertError(AlertDecodeError, "tls: CompressedCertificate message truncated")
	}
	if !s.Empty() {
		return nil, alertError(AlertDecodeError, "tls: CompressedCertificate message not fully consumed, ", len(s), " trailing bytes")
	}
	m.Algorithm = CertCompressionAlgo(alg)
	m.CompressedPayload = append([]byte(nil), payload...)
	return m, nil
}

// CompressCertificatePayload compresses a marshaled Certificate message
// body with the given algorithm. RFC 8879, Section 4.2.1: if the
// compressed result is equal to or larger than the input, compression
// SHOULD NOT be applied; (nil, nil) is returned and the caller should
// send the uncompressed message.
func CompressCertificatePayload(algorithm CertCompressionAlgo, payload []byte) (*CompressedCertificate, error) {
	if len(payload) >= maxUncompressedCertSize {
		return nil, tlserrors.New("tls: certificate message too large to compress: ", len(payload), " bytes").AtError()
	}

	var compressed []byte
	switch algorithm {
	case CertCompressionBrotli:
		compressed = compressBrotli(payload)
	case CertCompressionZlib:
		compressed = compressZlib(payload)
	case CertCompressionZstd:
		compressed = compressZstd(payload)
	default:
		return nil, tlserrors.New("tls: unsupported compression algorithm: ", uint16(algorithm)).AtError()
	}
	if compressed == nil {
		return nil, tlserrors.New("tls: certificate compression failed").AtError()
	}

	if len(compressed) >= len(payload) {
		return nil, nil
	}
	return &CompressedCertificate{
		Algorithm:          algorithm,
		UncompressedLength: uint32(len(payload)),
		CompressedPayload:  compressed,
	}, nil
}

// Decompress recovers the Certificate message body. RFC 8879,
// Section 4: if the specified length does not match the actual length
// after decompression, the receiving party MUST abort with a
// bad_certificate alert.
func (m *CompressedCertificate) Decompress() ([]byte, error) {
	if m.UncompressedLength > maxUncompressedCertSize {
		return nil, alertError(AlertBadCertificate, "tls: compressed certificate uncompressed length ", m.UncompressedLength, " exceeds maximum ", maxUncompressedCertSize)
	}
	if m.UncompressedLength == 0 {
		return nil, alertError(AlertBadCertificate, "tls: compressed certificate has zero uncompressed length")
	}

	var (
		decompressed io.Reader
		compressed   = bytes.NewReader(m.CompressedPayload)
	)
	switch m.Algorithm {
	case CertCompressionBrotli:
		decompressed = brotli.NewReader(compressed)

	case CertCompressionZlib:
		rc, err := zlib.NewReader(compressed)
		if err != nil {
			return nil, alertError(AlertBadCertificate, "tls: failed to open zlib reader: ", err)
		}
		defer rc.Close()
		decompressed = rc

	case CertCompressionZstd:
		rc, err := zstd.NewReader(compressed)
		if err != nil {
			return nil, alertError(AlertBadCertificate, "tls: failed to open zstd reader: ", err)
		}
		defer rc.Close()
		decompressed = rc

	default:
		return nil, alertError(AlertBadCertificate, "tls: unsupported compression algorithm: ", uint16(m.Algorithm))
	}

	// A single Read is not guaranteed to return everything.
	payload := make([]byte, m.UncompressedLength)
	if n, err := io.ReadFull(decompressed, payload); err != nil {
		return nil, alertError(AlertBadCertificate, "tls: decompressed length ", n, " does not match specified length ", m.UncompressedLength)
	}
	// Declared length must also not undershoot the stream.
	var extra [1]byte
	if n, _ := decompressed.Read(extra[:]); n != 0 {
		return nil, alertError(AlertBadCertificate, "tls: decompressed certificate longer than specified length ", m.UncompressedLength)
	}
	return payload, nil
}

func compressBrotli(data []byte) []byte {
	var buf bytes.Buffer
	writer := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err := writer.Write(data); err != nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func compressZlib(data []byte) []byte {
	var buf bytes.Buffer
	writer := zlib.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil
	}
	if err := writer.Close(); err != nil {
		return nil
	}
	return buf.Bytes()
}

func compressZstd(data []byte) []byte {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil
	}
	return encoder.EncodeAll(data, nil)
}
