package http

import (
	"net"

	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/method"
	"github.com/indigo-web/weaprous/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents a single inbound HTTP message. It lives no longer than the connection
// it was received from.
type Request struct {
	// Method is an enum representing the request method. method.Unknown is set either when the
	// request line is malformed or the method isn't supported.
	Method method.Method
	// Path is the request-target after the alias rewrite.
	Path string
	// AliasFrom contains the original request path, in case it was replaced via alias.
	AliasFrom string
	// Version is the protocol token from the request line. It is stored as is and is never
	// validated.
	Version string
	// URL is http://<host><path> if the Host header is presented, otherwise the path alone.
	URL string
	// Headers holds lower-cased header names, each one with a single value: the last one
	// received.
	Headers Headers
	// Cookies are name-value pairs from the Cookie header. Never nil.
	Cookies cookie.Jar
	// Body is the raw text following the headers block.
	Body string
	// Route is the handler resolved for (Method, Path) at parsing time, or nil if there's none.
	Route Handler
	// Remote holds the remote address, if known.
	Remote net.Addr
	// ID is a per-connection identifier, used to correlate log records.
	ID string
}

func NewRequest() *Request {
	return &Request{
		Method:  method.Unknown,
		Headers: kv.NewPrealloc(10),
		Cookies: make(cookie.Jar),
	}
}

// Malformed reports whether the request line couldn't be parsed. In this case, method, path
// and version are all left empty.
func (r *Request) Malformed() bool {
	return r.Method == method.Unknown && len(r.Path) == 0 && len(r.Version) == 0
}

// Matched reports whether a handler was resolved for the request.
func (r *Request) Matched() bool {
	return r.Route != nil
}
