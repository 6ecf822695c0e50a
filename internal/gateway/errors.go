// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the finchat document-analysis
// backend. It is the only package permitted to perform network I/O.
package gateway

import (
	"encoding/json"
	"errors"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes gateway errors. The UI does not branch on the kind
// (every failure surfaces as one error string), but tests and logs do.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	// ErrKindTransport covers network-level faults and non-2xx statuses.
	ErrKindTransport
	// ErrKindValidation covers malformed or incomplete response bodies,
	// such as an advanced visualization envelope missing required keys.
	ErrKindValidation
)

// GatewayError is the single error shape every gateway operation returns.
// Transport faults, rejected requests, and malformed responses all fold
// into it; callers that need the distinction use the Kind.
type GatewayError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a gateway validation error.
func IsValidation(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == ErrKindValidation
}

// IsTransport reports whether err is a gateway transport error.
func IsTransport(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == ErrKindTransport
}

// =============================================================================
// BACKEND ERROR BODIES
// =============================================================================

// errorBody matches the backend's non-2xx payloads. The backend is not
// consistent: some routes return {"error": "..."}, FastAPI routes return
// {"detail": "..."} where detail is either a string or an object carrying
// its own error/message pair.
type errorBody struct {
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// text extracts the most specific human-readable message, or "" when the
// body carried none.
func (b errorBody) text() string {
	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil && s != "" {
			return s
		}
		var obj struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(b.Detail, &obj); err == nil {
			if obj.Message != "" {
				return obj.Message
			}
			if obj.Error != "" {
				return obj.Error
			}
		}
	}
	return b.Error
}
