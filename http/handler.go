package http

import "github.com/indigo-web/weaprous/http/status"

// Handler is invoked on a route match. It receives the normalized headers and the body only,
// not the whole request. Returning a nil response stands for 200 OK with no body. A returned
// error turns into an error response, see Response.Error.
type Handler func(headers Headers, body string) (*Response, error)

// StatusFunc is a handler reporting just a status code. Zero code means the handler returned
// nothing, so the default 200 OK is used.
type StatusFunc func(headers Headers, body string) (status.Code, error)

// Handler adapts the StatusFunc to the Handler.
func (f StatusFunc) Handler() Handler {
	return func(headers Headers, body string) (*Response, error) {
		code, err := f(headers, body)
		if err != nil || code == 0 {
			return nil, err
		}

		return Code(code), nil
	}
}
