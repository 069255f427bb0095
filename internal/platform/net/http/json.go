package http

import (
	"net/http"

	"attractor/internal/platform/net/http/bind"
)

// JSONHandler decodes and validates T, then wraps fn's result in the envelope.
// fn may return a Response to pick its own status
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// NoBodyHandler calls fn without reading a body and wraps the result
func NoBodyHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
