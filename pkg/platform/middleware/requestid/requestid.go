package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"nftmarket/pkg/requestcontext"
)

// Header is the correlation header honored and echoed by the middleware.
const Header = "X-Request-Id"

// Middleware ensures every request carries a correlation ID, generating one
// when the client did not supply it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
