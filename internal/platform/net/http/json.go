package http

import (
	"net/http"

	"eidclient/internal/platform/net/http/bind"
)

// JSONHandler binds and validates a T body, then wraps fn's result in an envelope
// A non-zero status from fn overrides the 200 default
func JSONHandler[T any](fn func(*http.Request, T) (any, error), status ...int) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return withStatus(out, status)
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

func withStatus(out any, status []int) Response {
	if len(status) > 0 && status[0] != 0 {
		return Response{Status: status[0], Body: out}
	}
	return OK(out)
}

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST that binds a T body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), status ...int) {
	r.Post(path, JSONHandler(h, status...))
}

// PostNoBody mounts a pure JSON handler for POST that ignores the request body
func PostNoBody(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, JSONHandlerNoBody(h))
}
