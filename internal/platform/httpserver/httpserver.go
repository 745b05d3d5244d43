package httpserver

import (
	"net/http"
	"time"
)

// New builds the marketplace HTTP server. ReadHeaderTimeout bounds how long a
// client may stall before sending headers; the handlers themselves rely on
// request contexts for cancellation.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
