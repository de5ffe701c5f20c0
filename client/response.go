package client

import (
	"strconv"
	"strings"

	"github.com/indigo-web/weaprous/http/status"
	"github.com/indigo-web/weaprous/kv"
	"github.com/pkg/errors"
)

type Response struct {
	Protocol string
	Code     status.Code
	Status   status.Status
	// Headers keep names as they were received. Lookups are case-insensitive anyway.
	Headers *kv.Storage
	Body    string
}

// parseResponse parses the complete response. The body is cut to the Content-Length, if
// one is declared, otherwise everything after the headers is the body.
func parseResponse(data string) (*Response, error) {
	head, body, found := strings.Cut(data, "\r\n\r\n")
	if !found {
		return nil, errors.Errorf("incomplete response headers: %q", data)
	}

	statusLine, headers := cutLine(head)
	protocol, rest, found := strings.Cut(statusLine, " ")
	if !found || !strings.HasPrefix(protocol, "HTTP/") {
		return nil, errors.Errorf("malformed status line: %q", statusLine)
	}

	rawCode, reason, _ := strings.Cut(rest, " ")
	code, err := strconv.ParseUint(rawCode, 10, 16)
	if err != nil {
		return nil, errors.Wrapf(err, "bad status code %q", rawCode)
	}

	response := &Response{
		Protocol: protocol,
		Code:     status.Code(code),
		Status:   status.Status(reason),
		Headers:  kv.New(),
	}

	for len(headers) > 0 {
		var line string
		line, headers = cutLine(headers)
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.Errorf("colon separator not found on header: %q", line)
		}

		response.Headers.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if value, found := response.Headers.Get("content-length"); found {
		length, err := strconv.Atoi(value)
		if err != nil || length < 0 {
			return nil, errors.Errorf("bad content length: %q", value)
		}

		if length > len(body) {
			return nil, errors.Errorf("body is truncated: want %d bytes, got %d", length, len(body))
		}

		body = body[:length]
	}

	response.Body = body

	return response, nil
}

func cutLine(data string) (line, rest string) {
	line, rest, _ = strings.Cut(data, "\n")
	return strings.TrimSuffix(line, "\r"), rest
}
