// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	pnet "resolveit/internal/platform/net"
	phttp "resolveit/internal/platform/net/http"
	"resolveit/internal/platform/net/http/bind"
)

type (
	// Page is the pagination metadata type
	Page = pnet.Page

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response with items and pagination
func List(items any, total, limit, offset int) Response {
	return phttp.List(items, Page{Total: total, Limit: limit, Offset: offset})
}

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a body-less handler; a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Param returns a path parameter
func Param(r *http.Request, name string) string { return phttp.URLParam(r, name) }

// Validate runs struct validation for input a handler built or rewrote itself
func Validate(v any) error { return bind.Validate(v) }

// Fail writes err as an error envelope, for handlers that own the response writer
func Fail(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }
