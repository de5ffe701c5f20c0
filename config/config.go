package config

import "time"

type (
	// Path controls the request-target rewriting, applied before routes are resolved. Routes
	// must therefore be registered against the rewritten paths only.
	Path struct {
		// Default is the document the root path "/" is rewritten to.
		Default string
		// Aliases maps friendly paths onto their backing resources. It is a fixed lookup,
		// the rewritten path is never looked up again.
		Aliases map[string]string
	}

	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// MaxRequestSize limits the whole request, including request line, headers and the body.
		// Requests exceeding it are answered with 413 Request Entity Too Large.
		MaxRequestSize int
		// ReadTimeout controls how long the server waits for the request to be fully
		// received. Connections failing to do so are dropped.
		ReadTimeout time.Duration
		// WriteTimeout limits the time spent on writing the response.
		WriteTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	Handler struct {
		// Timeout is the budget handlers are expected to fit their outbound calls into. The engine
		// itself doesn't enforce it, it's the handler's duty.
		Timeout time.Duration
	}
)

// Config holds settings used across the engine. Callers should always start with Default()
// and modify the returned instance.
type Config struct {
	Path    Path
	NET     NET
	Handler Handler
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Path: Path{
			Default: "/index.html",
			Aliases: map[string]string{
				"/login": "/login.html",
			},
		},
		NET: NET{
			ReadBufferSize:            2 * 1024,
			MaxRequestSize:            1024 * 1024, // 1mb is more than enough for forms and chat messages
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              30 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Handler: Handler{
			Timeout: 5 * time.Second,
		},
	}
}

// Rewrite applies the alias table to the path. Paths without an alias are returned unchanged.
func (p Path) Rewrite(path string) string {
	if path == "/" {
		return p.Default
	}

	if backing, found := p.Aliases[path]; found {
		return backing
	}

	return path
}
