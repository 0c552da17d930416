package httpserver

import (
	"net/http"
	"time"

	"farmbooking-go/internal/config"
)

// New wires the router into an http.Server. Read and write timeouts stay
// generous because media uploads stream through ordinary handlers.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
