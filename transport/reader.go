package transport

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/indigo-web/weaprous/internal/timer"
)

var separator = []byte("\r\n\r\n")

// ReadRequest reads a single complete request: everything up to the headers block terminator
// and, if Content-Length is declared, that many bytes of the body. Anything sent past
// the declared body is dropped, as connections don't serve more than one request.
//
// If the peer closes its side prematurely, whatever was received is returned without
// an error, so it can still be answered. An io.EOF is returned only if nothing
// was received at all. Requests exceeding cfg.MaxRequestSize result in
// status.ErrRequestEntityTooLarge, and an invalid Content-Length in status.ErrBadContentLength.
func ReadRequest(conn net.Conn, cfg config.NET) ([]byte, error) {
	var (
		buff  = make([]byte, 0, cfg.ReadBufferSize)
		chunk = make([]byte, cfg.ReadBufferSize)
		want  = -1
	)

	for {
		if err := conn.SetReadDeadline(timer.Deadline(cfg.ReadTimeout)); err != nil {
			return nil, err
		}

		n, err := conn.Read(chunk)
		buff = append(buff, chunk[:n]...)

		if want == -1 {
			if end := bytes.Index(buff, separator); end != -1 {
				end += len(separator)
				length, cerr := contentLength(buff[:end])
				if cerr != nil {
					return nil, cerr
				}

				// compared before adding, as end+length may overflow
				if length > cfg.MaxRequestSize-end {
					return nil, status.ErrRequestEntityTooLarge
				}

				want = end + length
			}
		}

		switch {
		case want != -1 && want > cfg.MaxRequestSize:
			return nil, status.ErrRequestEntityTooLarge
		case want != -1 && len(buff) >= want:
			return buff[:want], nil
		case want == -1 && len(buff) > cfg.MaxRequestSize:
			return nil, status.ErrRequestEntityTooLarge
		}

		if err != nil {
			if errors.Is(err, io.EOF) && len(buff) > 0 {
				return buff, nil
			}

			return nil, err
		}
	}
}

// contentLength looks the Content-Length header up in the headers block. Zero is returned
// if there's none.
func contentLength(head []byte) (int, error) {
	for len(head) > 0 {
		var line []byte
		line, head, _ = bytes.Cut(head, []byte("\r\n"))

		key, value, found := bytes.Cut(line, []byte(":"))
		if !found || !strcomp.EqualFold(uf.B2S(key), "content-length") {
			continue
		}

		length, err := strconv.Atoi(uf.B2S(bytes.TrimSpace(value)))
		if err != nil || length < 0 {
			return 0, status.ErrBadContentLength
		}

		return length, nil
	}

	return 0, nil
}
