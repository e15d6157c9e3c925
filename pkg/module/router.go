package module

import (
	"cmp"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Router dispatches requests to mounted modules by path prefix, longest
// prefix first, falling back to a native ServeMux for unmatched paths.
type Router struct {
	modules []*Module
	native  *http.ServeMux
}

// NewRouter creates a Router with no modules and an empty native mux.
func NewRouter() *Router {
	return &Router{native: http.NewServeMux()}
}

// HandleNative registers a handler on the native fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers a module. Panics if another module already owns the
// same prefix.
func (r *Router) Mount(m *Module) {
	for _, existing := range r.modules {
		if existing.prefix == m.prefix {
			panic(fmt.Errorf("module prefix already mounted: %s", m.prefix))
		}
	}
	r.modules = append(r.modules, m)
	slices.SortStableFunc(r.modules, func(a, b *Module) int {
		return cmp.Compare(len(b.prefix), len(a.prefix))
	})
}

// Prefixes lists the mounted module prefixes in dispatch order.
func (r *Router) Prefixes() []string {
	out := make([]string, len(r.modules))
	for i, m := range r.modules {
		out[i] = m.prefix
	}
	return out
}

// ServeHTTP dispatches to the owning module or the native mux. A single
// trailing slash is dropped before matching.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	for _, m := range r.modules {
		if m.owns(req.URL.Path) {
			m.ServeHTTP(w, req)
			return
		}
	}

	r.native.ServeHTTP(w, req)
}
