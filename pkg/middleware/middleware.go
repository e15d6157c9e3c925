// Package middleware provides the HTTP middleware shared by service modules:
// request identifiers, request logging, and CORS.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// System is an ordered middleware stack. The first middleware added is the
// outermost when applied.
type System interface {
	Use(mw ...Middleware)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack []Middleware

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw ...Middleware) {
	for _, m := range mw {
		if m != nil {
			*s = append(*s, m)
		}
	}
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}

func (s *stack) Len() int {
	return len(*s)
}
