package router

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/method"
)

type key struct {
	method method.Method
	path   string
}

// Table is an exact-match registry of (method, path) -> handler bindings. It is filled
// before the server starts and is only read afterwards, so lookups need no locking.
type Table struct {
	routes  map[key]http.Handler
	frozen  *atomic.Bool
	rewrite func(string) string
}

// New constructs a new empty route table
func New() *Table {
	return &Table{
		routes: make(map[key]http.Handler),
		frozen: new(atomic.Bool),
	}
}

// WithAliases makes registrations go through the same path rewriting requests do, so
// registering a friendly path binds the handler to its backing path. Must be called before
// any route is registered.
func (t *Table) WithAliases(path config.Path) *Table {
	t.rewrite = path.Rewrite
	return t
}

// Register binds the handler to the method and path. Registering the same pair again
// silently replaces the earlier handler. Lookups are exact, so unless WithAliases was
// called, aliased paths must be registered by their backing paths.
//
// Registering anything after Freeze was called panics.
func (t *Table) Register(m method.Method, path string, handler http.Handler) *Table {
	if t.frozen.Load() {
		panic(fmt.Sprintf("router: %s %s: route registered after the server started", m, path))
	}

	if handler == nil {
		panic(fmt.Sprintf("router: %s %s: nil handler", m, path))
	}

	if t.rewrite != nil {
		path = t.rewrite(path)
	}

	t.routes[key{m, path}] = handler
	return t
}

// Resolve looks the handler up. There are no fallbacks, wildcards or prefix matches.
func (t *Table) Resolve(m method.Method, path string) (http.Handler, bool) {
	handler, found := t.routes[key{m, path}]
	return handler, found
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes iterates over all the registered bindings in no particular order.
func (t *Table) Routes() iter.Seq2[method.Method, string] {
	return func(yield func(method.Method, string) bool) {
		for k := range t.routes {
			if !yield(k.method, k.path) {
				return
			}
		}
	}
}

// Freeze forbids further registrations. Called by the server right before it starts
// accepting connections.
func (t *Table) Freeze() {
	t.frozen.Store(true)
}
