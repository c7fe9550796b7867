package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "resolveit/internal/platform/net"
)

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes a 200 envelope
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	JSON(w, stdhttp.StatusOK, pnet.Success(stdhttp.StatusOK, data, pnet.RequestID(r.Context())))
}

// RespondList writes items with the page block
func RespondList(w stdhttp.ResponseWriter, r *stdhttp.Request, items any, page pnet.Page) {
	env := pnet.Success(stdhttp.StatusOK, items, pnet.RequestID(r.Context()))
	env.Page = &page
	JSON(w, stdhttp.StatusOK, env)
}

// RespondError maps err onto the error envelope
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	env := pnet.Failure(err, pnet.RequestID(r.Context()))
	JSON(w, env.StatusCode, env)
}

// Response is the return value of return-style handlers
type Response struct {
	Status int
	Body   any
	Page   *pnet.Page
	Header stdhttp.Header
}

// Handle adapts a Response returning function to a handler
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	env := pnet.Success(status, resp.Body, pnet.RequestID(r.Context()))
	env.Page = resp.Page
	JSON(w, status, env)
}

// OK is a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created is a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// List is a 200 response with a page block
func List(items any, page pnet.Page) Response {
	return Response{Status: stdhttp.StatusOK, Body: items, Page: &page}
}

// Error is a response whose status comes from the error code
func Error(err error) Response { return Response{Body: err} }
