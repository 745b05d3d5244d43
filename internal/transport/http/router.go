package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nftmarket/internal/market/handler"
	"nftmarket/internal/ratelimit"
	"nftmarket/pkg/platform/middleware/auth"
	"nftmarket/pkg/platform/middleware/requestid"
)

// Deps carries everything the router mounts. Optional fields may be nil.
type Deps struct {
	Market   *handler.Handler
	Custody  *handler.CustodyHandler
	Verifier *auth.Verifier
	Limiter  *ratelimit.Limiter
}

// New wires all public endpoints. Reads are open; every mutating endpoint
// requires a resolved caller and passes through the rate limiter.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		deps.Market.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCaller(deps.Verifier))
		if deps.Limiter != nil {
			r.Use(deps.Limiter.Middleware)
		}
		deps.Market.Register(r)
		if deps.Custody != nil {
			deps.Custody.Register(r)
		}
	})

	return r
}
