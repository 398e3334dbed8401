package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"phonestore/internal/domain"
	apperrors "phonestore/internal/errors"
	"phonestore/internal/httpx"
)

type ctxKey struct{}

// Middleware rejects requests whose bearer credential the strategy does not
// accept and stores the resolved identity in the request context.
func Middleware(strategy Strategy, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID, logger := httpx.Trace(logger)

			bearer, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn("missing bearer credential", zap.String("path", r.URL.Path))
				httpx.WriteError(w, traceID, apperrors.NewUnauthorizedError("missing bearer credential"), logger)
				return
			}

			identity, err := strategy.Authorize(r.Context(), bearer)
			if err != nil {
				httpx.WriteError(w, traceID, err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
