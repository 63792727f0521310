package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gogpu/swirl"
	"github.com/gogpu/swirl/internal/metrics"
)

type healthStatus struct {
	Status    string `json:"status"`
	State     string `json:"state"`
	Phase     int    `json:"phase"`
	Animating bool   `json:"animating"`
	Playing   bool   `json:"playing"`
	Hash      string `json:"hash"`
}

// newRouter serves the collector's metrics and the animator's health.
func newRouter(c *metrics.Collector, a *swirl.Animator) http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", c.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := healthStatus{
			Status:    "ok",
			State:     a.State().String(),
			Phase:     a.Phase(),
			Animating: a.Animating(),
			Playing:   a.Playing(),
			Hash:      a.Hash(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			swirl.Logger().Error("healthz encode failed", "error", err)
		}
	})

	return r
}
