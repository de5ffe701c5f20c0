package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf unwraps the HTTPError out of err, if any. Otherwise, InternalServerError is returned.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrBadRequest            = NewError(BadRequest, "bad request")
	ErrMalformedRequestLine  = NewError(BadRequest, "malformed request line")
	ErrUnauthorized          = NewError(Unauthorized, "unauthorized")
	ErrForbidden             = NewError(Forbidden, "forbidden")
	ErrNotFound              = NewError(NotFound, "not found")
	ErrRequestTimeout        = NewError(RequestTimeout, "request timeout")
	ErrRequestEntityTooLarge = NewError(RequestEntityTooLarge, "request entity too large")
	ErrBadContentLength      = NewError(BadRequest, "bad content length")
	ErrURLDecoding           = NewError(BadRequest, "malformed urlencoded data")
	ErrInternalServerError   = NewError(InternalServerError, "internal server error")
	ErrBadGateway            = NewError(BadGateway, "bad gateway")
	ErrGatewayTimeout        = NewError(GatewayTimeout, "gateway timeout")
)
