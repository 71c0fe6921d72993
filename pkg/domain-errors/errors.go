// Package dErrors defines the coded domain errors returned by registry
// services. Stores return sentinel errors (pkg/platform/sentinel); services
// translate them into these so transport layers can map codes to HTTP
// statuses without inspecting error text.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a domain failure. The numeric values are part of the wire
// contract and are preserved from the original contract error table; they are
// namespaced per registry (1xx mine, 2xx batch, 3xx certification).
type Code int

const (
	CodeNotAuthorized         Code = 100
	CodeMineExists            Code = 101
	CodeMineNotFound          Code = 102
	CodeBatchExists           Code = 201
	CodeBatchNotFound         Code = 202
	CodeNotOwner              Code = 203
	CodeCertNotAuthorized     Code = 301
	CodeAlreadyCertified      Code = 302
	CodeCertificationNotFound Code = 303

	// Transport-level codes, outside the registry namespaces.
	CodeBadRequest Code = 400
	CodeInternal   Code = 500
)

// Error carries a code and a human-readable message. Messages are for
// operators; callers should branch on the code only.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// New builds a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HTTPStatus maps a domain code to an HTTP status for the transport layer.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotAuthorized, CodeNotOwner, CodeCertNotAuthorized:
		return http.StatusForbidden
	case CodeMineExists, CodeBatchExists, CodeAlreadyCertified:
		return http.StatusConflict
	case CodeMineNotFound, CodeBatchNotFound, CodeCertificationNotFound:
		return http.StatusNotFound
	case CodeBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
