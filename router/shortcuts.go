package router

import (
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/method"
)

// Get is a shortcut for registering GET-requests
func (t *Table) Get(path string, handler http.Handler) *Table {
	return t.Register(method.GET, path, handler)
}

// Post is a shortcut for registering POST-requests
func (t *Table) Post(path string, handler http.Handler) *Table {
	return t.Register(method.POST, path, handler)
}

// Put is a shortcut for registering PUT-requests
func (t *Table) Put(path string, handler http.Handler) *Table {
	return t.Register(method.PUT, path, handler)
}

// Delete is a shortcut for registering DELETE-requests
func (t *Table) Delete(path string, handler http.Handler) *Table {
	return t.Register(method.DELETE, path, handler)
}
