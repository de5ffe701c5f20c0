package http1

import (
	"strconv"
	"strings"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/cookie"
)

// DefaultProtocol is used in the status line when the request's own version token
// can't be echoed back.
const DefaultProtocol = "HTTP/1.1"

// Serializer renders response descriptors into their wire representation. It is bound
// to a single connection and reuses its buffer.
type Serializer struct {
	buff []byte
}

func NewSerializer(buff []byte) *Serializer {
	return &Serializer{buff: buff}
}

// Serialize renders the response. The version is echoed back as is, if it looks like an HTTP
// version token at all. The returned slice is valid until the next call.
func (s *Serializer) Serialize(version string, response *http.Response) []byte {
	s.buff = s.buff[:0]
	fields := response.Expose()

	s.appendProtocol(version)
	s.buff = strconv.AppendUint(s.buff, uint64(fields.Code), 10)
	s.sp()
	s.buff = append(s.buff, string(fields.Status)...)
	s.crlf()

	if len(fields.ContentType) > 0 {
		s.appendKnownHeader("Content-Type: ", fields.ContentType)
	}

	for key, value := range fields.Headers.Pairs() {
		if isManaged(key) {
			continue
		}

		s.appendHeader(key, value)
	}

	for _, c := range fields.Cookies {
		s.appendCookie(c)
	}

	s.buff = append(s.buff, "Content-Length: "...)
	s.buff = strconv.AppendInt(s.buff, int64(len(fields.Body)), 10)
	s.crlf()
	// every connection serves exactly one request
	s.appendKnownHeader("Connection: ", "close")
	s.crlf()
	s.buff = append(s.buff, fields.Body...)

	return s.buff
}

func (s *Serializer) appendProtocol(version string) {
	if !strings.HasPrefix(version, "HTTP/") {
		version = DefaultProtocol
	}

	s.buff = append(s.buff, version...)
	s.sp()
}

// appendHeader writes a complete header field line.
func (s *Serializer) appendHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, ':', ' ')
	s.buff = append(s.buff, value...)
	s.crlf()
}

// appendKnownHeader differs from appendHeader only by the fact that the key is known to already
// have a colon and a space included.
func (s *Serializer) appendKnownHeader(key, value string) {
	s.buff = append(s.buff, key...)
	s.buff = append(s.buff, value...)
	s.crlf()
}

var zoneGMT = time.FixedZone("GMT", 0)

func (s *Serializer) appendCookie(c cookie.Cookie) {
	s.buff = append(s.buff, "Set-Cookie: "...)
	s.buff = append(s.buff, c.Name...)
	s.buff = append(s.buff, '=')
	s.buff = append(s.buff, c.Value...)

	if len(c.Path) > 0 {
		s.buff = append(s.buff, "; Path="...)
		s.buff = append(s.buff, c.Path...)
	}

	if !c.Expires.IsZero() {
		s.buff = append(s.buff, "; Expires="...)
		s.buff = c.Expires.In(zoneGMT).AppendFormat(s.buff, time.RFC1123)
	}

	switch {
	case c.MaxAge < 0:
		s.buff = append(s.buff, "; Max-Age=0"...)
	case c.MaxAge > 0:
		s.buff = append(s.buff, "; Max-Age="...)
		s.buff = strconv.AppendInt(s.buff, int64(c.MaxAge), 10)
	}

	if len(c.SameSite) > 0 {
		s.buff = append(s.buff, "; SameSite="...)
		s.buff = append(s.buff, string(c.SameSite)...)
	}

	if c.HttpOnly {
		s.buff = append(s.buff, "; HttpOnly"...)
	}

	s.crlf()
}

func (s *Serializer) sp() {
	s.buff = append(s.buff, ' ')
}

func (s *Serializer) crlf() {
	s.buff = append(s.buff, '\r', '\n')
}

// isManaged tells whether the header is always set by the serializer itself, so the user's
// value must be dropped.
func isManaged(key string) bool {
	return strcomp.EqualFold(key, "content-length") ||
		strcomp.EqualFold(key, "connection") ||
		strcomp.EqualFold(key, "content-type")
}
