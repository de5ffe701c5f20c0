package http

import (
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/mime"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/indigo-web/weaprous/kv"
	json "github.com/json-iterator/go"
)

// why 7? Most of the responses carry way fewer headers than that.
const preallocRespHeaders = 7

// Response is a response descriptor, serialized by the engine after the handler returns.
type Response struct {
	code        status.Code
	status      status.Status
	contentType mime.MIME
	headers     *kv.Storage
	cookies     []cookie.Cookie
	body        []byte
}

// NewResponse returns a new instance of the Response object with status code set to 200 OK
// and no body.
func NewResponse() *Response {
	return &Response{
		code:    status.OK,
		headers: kv.NewPrealloc(preallocRespHeaders),
	}
}

// Code sets a Response code. The reason phrase is derived from it, unless set explicitly
// via Status.
func (r *Response) Code(code status.Code) *Response {
	r.code = code
	return r
}

// Status sets a custom reason phrase.
func (r *Response) Status(status status.Status) *Response {
	r.status = status
	return r
}

// ContentType sets a custom Content-Type header value.
func (r *Response) ContentType(value mime.MIME) *Response {
	r.contentType = value
	return r
}

// Header sets header values to a key. In case it already exists the value will
// be appended. Content-Length is always computed from the actual body, therefore
// setting it explicitly takes no effect.
func (r *Response) Header(key string, values ...string) *Response {
	if strcomp.EqualFold(key, "content-type") && len(values) > 0 {
		return r.ContentType(values[0])
	}

	for _, value := range values {
		r.headers.Add(key, value)
	}

	return r
}

// String sets the response's body to the passed string
func (r *Response) String(body string) *Response {
	return r.Bytes(uf.S2B(body))
}

// Bytes sets the response's body to passed slice WITHOUT COPYING. Changing
// the passed slice later will affect the response by itself
func (r *Response) Bytes(body []byte) *Response {
	r.body = body
	return r
}

// Write implements io.Writer interface. It always returns n=len(b) and err=nil
func (r *Response) Write(b []byte) (n int, err error) {
	r.body = append(r.body, b...)
	return len(b), nil
}

// Cookie adds cookies. They'll be later rendered as a set of Set-Cookie headers
func (r *Response) Cookie(cookies ...cookie.Cookie) *Response {
	r.cookies = append(r.cookies, cookies...)
	return r
}

// TryJSON serializes the model into the body and returns an error if the model
// can't be serialized.
func (r *Response) TryJSON(model any) (*Response, error) {
	body, err := json.Marshal(model)
	if err != nil {
		return r, err
	}

	return r.ContentType(mime.JSON).Bytes(body), nil
}

// JSON does the same as TryJSON does, except returned error is being implicitly wrapped
// by Error
func (r *Response) JSON(model any) *Response {
	resp, err := r.TryJSON(model)
	if err != nil {
		return r.Error(err)
	}

	return resp
}

// Error sets the response code out of the error. An instance of status.HTTPError sets its
// code, anything else results in 500 Internal Server Error. The reason phrase is used as
// a plain-text body. If passed err is nil, nothing will happen.
func (r *Response) Error(err error) *Response {
	if err == nil {
		return r
	}

	code := status.CodeOf(err)

	return r.
		Code(code).
		ContentType(mime.Plain).
		String(string(status.Text(code)))
}

// Expose returns the fields set by the builder. Used by the serializer.
func (r *Response) Expose() Fields {
	reason := r.status
	if len(reason) == 0 {
		reason = status.Text(r.code)
	}

	return Fields{
		Code:        r.code,
		Status:      reason,
		ContentType: r.contentType,
		Headers:     r.headers,
		Cookies:     r.cookies,
		Body:        r.body,
	}
}

// Fields is a read-only view of the Response.
type Fields struct {
	Code        status.Code
	Status      status.Status
	ContentType mime.MIME
	Headers     *kv.Storage
	Cookies     []cookie.Cookie
	Body        []byte
}

// Respond returns a fresh 200 OK response. May be used as a dummy handler's result.
func Respond() *Response {
	return NewResponse()
}

// Code is a predicate to Respond().Code(...)
func Code(code status.Code) *Response {
	return Respond().Code(code)
}

// String is a predicate to Respond().String(...)
func String(str string) *Response {
	return Respond().String(str)
}

// JSON is a predicate to Respond().JSON(...)
func JSON(model any) *Response {
	return Respond().JSON(model)
}

// Error is a predicate to Respond().Error(...)
func Error(err error) *Response {
	return Respond().Error(err)
}
