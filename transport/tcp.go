package transport

import (
	"errors"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/internal/timer"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// TCP is a plain TCP transport. Each accepted connection is served by its own goroutine,
// so handlers calling out to other peers never block the accept loop.
type TCP struct {
	l    listener
	wg   *sync.WaitGroup
	stop *atomic.Bool
}

func NewTCP() *TCP {
	return &TCP{
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

func (t *TCP) Bind(addr string) error {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	l, err := net.ListenTCP("tcp", tcpaddr)
	if err != nil {
		return err
	}

	t.l = l
	return nil
}

// Addr returns the bound address. Useful when bound to the port 0.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

// Listen runs the accept loop until Stop is called. The callback must not close the
// connection, it's done right after it returns.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	for !t.stop.Load() {
		err := t.l.SetDeadline(timer.Deadline(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if t.stop.Load() {
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go t.serve(conn, cb)
	}

	return nil
}

// serve runs the callback and closes the connection afterwards. A panic is contained
// within the connection it happened on.
func (t *TCP) serve(conn net.Conn, cb func(conn net.Conn)) {
	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("weaprous: %s: connection dropped: %v", conn.RemoteAddr(), r)
		}

		_ = conn.Close()
	}()

	cb(conn)
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
