package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/otreport/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func header(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(key, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	patterns := routes.Register(mux, routes.Group{
		Prefix:     "/reports",
		Middleware: []func(http.Handler) http.Handler{header("X-Group", "reports")},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: status(http.StatusCreated)},
			{Method: "GET", Pattern: "/{session}/{name}", Handler: status(http.StatusOK)},
		},
		Children: []routes.Group{{
			Prefix:     "/meta",
			Middleware: []func(http.Handler) http.Handler{header("X-Group", "meta")},
			Routes: []routes.Route{
				{Pattern: "/ping", Handler: status(http.StatusNoContent)},
			},
		}},
	})

	assert.Equal(t, []string{
		"POST /reports",
		"GET /reports/{session}/{name}",
		"/reports/meta/ping",
	}, patterns)

	tests := []struct {
		method string
		path   string
		code   int
		groups []string
	}{
		{"POST", "/reports", http.StatusCreated, []string{"reports"}},
		{"GET", "/reports/abc/report.pdf", http.StatusOK, []string{"reports"}},
		{"DELETE", "/reports/meta/ping", http.StatusNoContent, []string{"reports", "meta"}},
		{"GET", "/reports", http.StatusMethodNotAllowed, nil},
		{"GET", "/unknown", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.groups, rec.Header().Values("X-Group"))
		})
	}
}
