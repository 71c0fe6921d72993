package httpserver

import (
	"net/http"
	"time"
)

// New builds the ledger's HTTP server. Registry payloads are small JSON
// documents, so the read timeout can stay tight; the write timeout leaves
// room for long transfer-history and audit-trail listings.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
