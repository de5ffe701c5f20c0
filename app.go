package weaprous

import (
	"log"
	"net"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/method"
	"github.com/indigo-web/weaprous/internal/server"
	"github.com/indigo-web/weaprous/router"
	"github.com/indigo-web/weaprous/transport"
)

const defaultAddr = "0.0.0.0:8000"

// App is the engine instance: a route table plus a TCP listener. Routes must be registered
// before Start is called.
type App struct {
	cfg        *config.Config
	addr       string
	routes     *router.Table
	logger     *log.Logger
	tcp        *transport.TCP
	supervisor *transport.Supervisor
	running    *atomic.Bool
	onStart    func()
}

// New returns a new App instance. If nil config is passed, config.Default() is used.
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	return &App{
		cfg:        cfg,
		addr:       defaultAddr,
		routes:     router.New().WithAliases(cfg.Path),
		logger:     log.New(os.Stderr, "", log.LstdFlags),
		tcp:        transport.NewTCP(),
		supervisor: transport.NewSupervisor(),
		running:    new(atomic.Bool),
	}
}

// Configure sets the address to listen on. Zero port picks a random free one, which can
// be retrieved via Addr after the app is started.
func (a *App) Configure(bindAddress string, bindPort uint16) *App {
	a.addr = net.JoinHostPort(bindAddress, strconv.Itoa(int(bindPort)))
	return a
}

// Logger replaces the default logger, which writes to stderr.
func (a *App) Logger(logger *log.Logger) *App {
	a.logger = logger
	return a
}

// NotifyOnStart calls the callback at the moment the listener is bound. The callback must
// not call Stop synchronously.
func (a *App) NotifyOnStart(cb func()) *App {
	a.onStart = cb
	return a
}

// Register binds the handler to the method and path. Friendly paths are bound to their
// backing ones, e.g. /login to /login.html with default config. Registering the same pair
// twice replaces the earlier handler.
func (a *App) Register(m method.Method, path string, handler http.Handler) *App {
	a.routes.Register(m, path, handler)
	return a
}

// Get is a shortcut for registering GET-requests
func (a *App) Get(path string, handler http.Handler) *App {
	return a.Register(method.GET, path, handler)
}

// Post is a shortcut for registering POST-requests
func (a *App) Post(path string, handler http.Handler) *App {
	return a.Register(method.POST, path, handler)
}

// Put is a shortcut for registering PUT-requests
func (a *App) Put(path string, handler http.Handler) *App {
	return a.Register(method.PUT, path, handler)
}

// Delete is a shortcut for registering DELETE-requests
func (a *App) Delete(path string, handler http.Handler) *App {
	return a.Register(method.DELETE, path, handler)
}

// Addr returns the address the app listens on, or nil if it isn't started yet.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Start binds the listener and serves connections until either Stop is called or the
// listener fails. The route table can't be modified afterwards.
func (a *App) Start() error {
	a.routes.Freeze()
	for m, path := range a.routes.Routes() {
		a.logger.Printf("weaprous: route %s %s", m, path)
	}

	srv := server.New(a.cfg, a.routes, a.logger)
	err := a.supervisor.Add(a.addr, a.tcp, func(conn net.Conn) {
		srv.Serve(conn)
	})
	if err != nil {
		return err
	}

	a.logger.Printf("weaprous: listening on %s", a.tcp.Addr())
	a.running.Store(true)
	callIfNotNil(a.onStart)

	return a.supervisor.Run(a.cfg.NET)
}

// Stop stops accepting new connections and waits for the ongoing ones to be served. It
// blocks until Start returns. Calling it on an app that isn't started is a no-op.
func (a *App) Stop() {
	if a.running.Swap(false) {
		a.supervisor.Stop()
	}
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
