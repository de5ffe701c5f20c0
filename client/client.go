package client

import (
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/weaprous/http/method"
	"github.com/pkg/errors"
)

const defaultBufferSize = 512

// Client performs plain HTTP/1.1 requests, one connection per request. The peer is expected
// to close the connection after the response, so the whole response is read until EOF.
type Client struct {
	dialer  net.Dialer
	timeout time.Duration
}

// New returns a new client. Non-zero timeout limits each request, including dialing, unless
// the passed context has a shorter deadline already.
func New(timeout time.Duration) *Client {
	return &Client{timeout: timeout}
}

// Do sends the request to addr (host:port) and waits for the response.
func (c *Client) Do(ctx context.Context, addr string, request *Request) (*Response, error) {
	if request.Method == method.Unknown {
		return nil, errors.New("client: unknown request method")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "client: dial %s", addr)
	}

	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err = conn.SetDeadline(deadline); err != nil {
			return nil, errors.Wrap(err, "client: set deadline")
		}
	}

	data := render(make([]byte, 0, defaultBufferSize+len(request.Body)), addr, request)
	if _, err = conn.Write(data); err != nil {
		return nil, errors.Wrapf(err, "client: %s %s", request.Method, request.Path)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, errors.Wrapf(err, "client: %s %s: read response", request.Method, request.Path)
	}

	response, err := parseResponse(uf.B2S(raw))
	return response, errors.Wrapf(err, "client: %s %s", request.Method, request.Path)
}

// render serializes the request. Host defaults to the address the request is sent to,
// unless set explicitly.
func render(buff []byte, addr string, request *Request) []byte {
	host := request.Headers.ValueOr("host", addr)
	path := request.Path
	if len(path) == 0 {
		path = "/"
	}

	buff = append(buff, request.Method.String()...)
	buff = append(buff, ' ')
	buff = append(buff, path...)
	buff = append(buff, " HTTP/1.1\r\nHost: "...)
	buff = append(buff, host...)
	buff = crlf(buff)

	for key, value := range request.Headers.Pairs() {
		if isManaged(key) {
			continue
		}

		buff = append(buff, key...)
		buff = append(buff, ": "...)
		buff = append(buff, value...)
		buff = crlf(buff)
	}

	buff = append(buff, "Content-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(request.Body)), 10)
	buff = append(buff, "\r\nConnection: close\r\n\r\n"...)

	return append(buff, request.Body...)
}

func isManaged(key string) bool {
	return strcomp.EqualFold(key, "host") ||
		strcomp.EqualFold(key, "content-length") ||
		strcomp.EqualFold(key, "connection")
}

func crlf(buff []byte) []byte {
	return append(buff, '\r', '\n')
}
