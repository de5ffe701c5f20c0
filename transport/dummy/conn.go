package dummy

import (
	"io"
	"net"
	"time"
)

// Conn is an in-memory net.Conn. Reads are served from the chunks it was initialised with,
// one chunk per call, and io.EOF once they're exhausted. Everything written is collected.
type Conn struct {
	Written []byte
	chunks  [][]byte
	readErr error
	closed  bool
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

// Fail makes the connection return the error instead of io.EOF after the chunks are over.
func (c *Conn) Fail(err error) *Conn {
	c.readErr = err
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if len(c.chunks) == 0 {
		if c.readErr != nil {
			return 0, c.readErr
		}

		return 0, io.EOF
	}

	n = copy(b, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	c.Written = append(c.Written, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) LocalAddr() net.Addr {
	return addr
}

func (c *Conn) RemoteAddr() net.Addr {
	return addr
}

func (c *Conn) SetDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

var addr = &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8000}

// Split splits the data into chunks of at most n bytes.
func Split(data []byte, n int) (chunks [][]byte) {
	for len(data) > n {
		chunks = append(chunks, data[:n])
		data = data[n:]
	}

	if len(data) > 0 {
		chunks = append(chunks, data)
	}

	return chunks
}
