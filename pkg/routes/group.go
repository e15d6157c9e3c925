package routes

import "net/http"

// Group organizes routes under a common prefix. Children nest beneath the
// group prefix. Middleware wraps every route of the group and its children,
// outermost first.
type Group struct {
	Prefix     string
	Routes     []Route
	Children   []Group
	Middleware []func(http.Handler) http.Handler
}

// Register adds every route of groups to mux and returns the registered
// patterns in order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, group := range groups {
		patterns = register(mux, "", nil, group, patterns)
	}
	return patterns
}

func register(
	mux *http.ServeMux,
	parent string,
	inherited []func(http.Handler) http.Handler,
	group Group,
	patterns []string,
) []string {
	prefix := parent + group.Prefix
	chain := append(inherited[:len(inherited):len(inherited)], group.Middleware...)

	for _, route := range group.Routes {
		var handler http.Handler = route.Handler
		for i := len(chain) - 1; i >= 0; i-- {
			handler = chain[i](handler)
		}
		pattern := route.pattern(prefix)
		mux.Handle(pattern, handler)
		patterns = append(patterns, pattern)
	}
	for _, child := range group.Children {
		patterns = register(mux, prefix, chain, child, patterns)
	}
	return patterns
}
