package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"nftmarket/pkg/domain"
	dErrors "nftmarket/pkg/domain-errors"
	"nftmarket/pkg/platform/httputil"
	"nftmarket/pkg/requestcontext"
)

// Verifier validates bearer tokens and resolves the caller account. The
// marketplace core never sees tokens, only the resolved account.
type Verifier struct {
	signingKey []byte
	logger     *slog.Logger
}

func NewVerifier(signingKey string, logger *slog.Logger) *Verifier {
	return &Verifier{signingKey: []byte(signingKey), logger: logger}
}

// CallerFromToken parses and validates an HS256 bearer token and returns the
// account named by its subject claim.
func (v *Verifier) CallerFromToken(tokenString string) (domain.Account, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.signingKey, nil
	})
	if err != nil || !token.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	return domain.Account(subject), nil
}

// RequireCaller rejects requests without a valid bearer token and stores the
// caller account in the request context.
func RequireCaller(verifier *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}
			caller, err := verifier.CallerFromToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				if verifier.logger != nil {
					verifier.logger.WarnContext(r.Context(), "rejected bearer token", "error", err)
				}
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(r.Context(), caller)))
		})
	}
}

// IssueToken mints an HS256 token for the given account. Used by tests and the
// dev tooling; production deployments bring their own issuer.
func (v *Verifier) IssueToken(account domain.Account) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": account.String(),
	})
	return token.SignedString(v.signingKey)
}
