// Package http writes JSON responses, enveloped unless a handler asks for raw output
package http

import (
	"encoding/json"
	"maps"
	stdhttp "net/http"

	"opendash/internal/platform/logger"
	pnet "opendash/internal/platform/net"
)

// Envelope is the body every non raw response is wrapped in
type Envelope = pnet.Envelope

// JSON writes v as application/json with the given status
// encode failures mean the client went away, they only reach debug logs
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("response encode failed")
	}
}

// Response is what return-style handlers hand back
// a Body holding an error is written as a failure envelope
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
	Raw    bool
}

// WithHeader returns a copy of resp carrying one more header
func (resp Response) WithHeader(k, v string) Response {
	h := make(stdhttp.Header, len(resp.Header)+1)
	for key, vals := range maps.All(resp.Header) {
		h[key] = append([]string(nil), vals...)
	}
	h.Add(k, v)
	resp.Header = h
	return resp
}

// Raw writes body as is, without the envelope
func Raw(status int, body any) Response { return Response{Status: status, Body: body, Raw: true} }

// Fail maps err to its status and failure envelope
func Fail(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).writeTo(w, r)
	}
}

func (resp Response) writeTo(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		writeError(w, r, err)
		return
	}

	status := resp.Status
	switch {
	case status == 0:
		status = stdhttp.StatusOK
	case status == stdhttp.StatusNoContent:
		w.WriteHeader(status)
		return
	}
	if resp.Raw {
		JSON(w, status, resp.Body)
		return
	}
	JSON(w, status, pnet.Success(status, resp.Body, pnet.RequestID(r.Context())))
}

func writeError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := pnet.Failure(err, pnet.RequestID(r.Context()))
	if status >= stdhttp.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	JSON(w, status, env)
}
