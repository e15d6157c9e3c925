package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/otreport/internal/api"
	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/infrastructure"
	"github.com/JaimeStill/otreport/pkg/module"
)

// Modules holds the mounted HTTP modules of the service.
type Modules struct {
	API *module.Module
}

// NewModules creates every module from the shared infrastructure.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers every module on the router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, version string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			respondStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		respondStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}

func respondStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
