package client

import (
	"github.com/indigo-web/weaprous/http/method"
	"github.com/indigo-web/weaprous/kv"
)

// Request is an outbound request. Content-Length and Connection headers are managed by the
// client, setting them takes no effect. Host defaults to the peer address.
type Request struct {
	Method  method.Method
	Path    string
	Headers *kv.Storage
	Body    string
}

func NewRequest(m method.Method, path string) *Request {
	return &Request{
		Method:  m,
		Path:    path,
		Headers: kv.New(),
	}
}

// Header adds the values to the key.
func (r *Request) Header(key string, values ...string) *Request {
	for _, value := range values {
		r.Headers.Add(key, value)
	}

	return r
}

// String sets the request body.
func (r *Request) String(body string) *Request {
	r.Body = body
	return r
}
