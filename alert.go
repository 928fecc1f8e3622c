// Copyright 2025 The botan-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tls

import (
	"fmt"

	tlserrors "github.com/thepaul/botan/errors"
)

// Alert is a TLS alert description, RFC 8446, Section 6.
type Alert uint8

const (
	AlertHandshakeFailure     Alert = 40
	AlertBadCertificate       Alert = 42
	AlertIllegalParameter     Alert = 47
	AlertDecodeError          Alert = 50
	AlertDecryptError         Alert = 51
	AlertInsufficientSecurity Alert = 71
	AlertInternalError        Alert = 80
)

func (a Alert) String() string {
	switch a {
	case AlertHandshakeFailure:
		return "handshake_failure"
	case AlertBadCertificate:
		return "bad_certificate"
	case AlertIllegalParameter:
		return "illegal_parameter"
	case AlertDecodeError:
		return "decode_error"
	case AlertDecryptError:
		return "decrypt_error"
	case AlertInsufficientSecurity:
		return "insufficient_security"
	case AlertInternalError:
		return "internal_error"
	default:
		return fmt.Sprintf("alert(%d)", uint8(a))
	}
}

// AlertError is a fatal handshake failure carrying the alert the caller
// must send before closing the connection. Every error this package
// returns on a protocol or decoding violation is an *AlertError.
type AlertError struct {
	Alert Alert
	Err   error
}

func (e *AlertError) Error() string {
	return e.Err.Error() + " (" + e.Alert.String() + ")"
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

func alertError(a Alert, msg ...interface{}) *AlertError {
	return &AlertError{Alert: a, Err: tlserrors.New(msg...).AtError()}
}

// AlertFor extracts the alert a failed handshake step must surface.
// Errors without an embedded alert map to internal_error.
func AlertFor(err error) Alert {
	for err != nil {
		if ae, ok := err.(*AlertError); ok {
			return ae.Alert
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return AlertInternalError
}
