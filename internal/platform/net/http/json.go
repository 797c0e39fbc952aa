package http

import (
	"net/http"

	"opendash/internal/platform/net/http/bind"
)

// JSONHandler adapts a handler taking a validated JSON body
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Fail(err)
		}
		return result(fn(r, in))
	})
}

// QueryHandler adapts a handler taking validated query parameters
func QueryHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseQuery[T](r)
		if err != nil {
			return Fail(err)
		}
		return result(fn(r, in))
	})
}

// CallHandler adapts a handler without input binding
func CallHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		return result(fn(r))
	})
}

// result lets handlers return a ready Response or plain data
func result(out any, err error) Response {
	if err != nil {
		return Fail(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return Response{Status: http.StatusOK, Body: out}
}
