package net

import (
	"net/http"

	perr "resolveit/internal/platform/errors"
)

// Envelope is the body of every API response and of websocket error frames
type Envelope struct {
	StatusCode int            `json:"status_code" cbor:"status_code"`
	Status     string         `json:"status" cbor:"status"`
	Code       perr.ErrorCode `json:"code,omitempty" cbor:"code,omitempty"`
	Kind       string         `json:"kind,omitempty" cbor:"kind,omitempty"`
	Error      string         `json:"error,omitempty" cbor:"error,omitempty"`
	Field      string         `json:"field,omitempty" cbor:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty" cbor:"request_id,omitempty"`
	Data       any            `json:"data,omitempty" cbor:"data,omitempty"`
	Page       *Page          `json:"page,omitempty" cbor:"page,omitempty"`
}

// Page describes an offset window over a filtered list
type Page struct {
	Total  int `json:"total" cbor:"total"`
	Limit  int `json:"limit" cbor:"limit"`
	Offset int `json:"offset" cbor:"offset"`
}

// Success builds a success envelope for status
func Success(status int, data any, reqID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Failure maps err onto an error envelope; the status comes from the error code
func Failure(err error, reqID string) Envelope {
	status, w := perr.HTTP(err)
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Kind:       w.Kind,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
