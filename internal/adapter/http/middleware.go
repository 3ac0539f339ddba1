package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
	"flavorfi/internal/metrics"
)

type contextKey string

const identityKey contextKey = "identity"

// CallerFromContext returns the identity stored by the auth middleware.
func CallerFromContext(ctx context.Context) (interfaces.Identity, bool) {
	caller, ok := ctx.Value(identityKey).(interfaces.Identity)
	return caller, ok
}

func LoggingMiddleware(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()

			logger.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			logger.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"duration_ms": duration.Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic_recovered", "Panic recovered", "", map[string]interface{}{
						"path": r.URL.Path,
					}, fmt.Errorf("%v", rec))
					respondMessage(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware records request counts and latency, labelled by the
// matched route pattern to keep cardinality bounded. The mux is consulted for
// the pattern because it only sets Request.Pattern for handlers below it.
func MetricsMiddleware(m *metrics.Metrics, mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			_, pattern := mux.Handler(r)
			if pattern == "" {
				pattern = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// TokenVerifier parses a bearer token and returns the user id it carries.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// Authenticator resolves the caller identity for protected routes.
type Authenticator struct {
	tokens TokenVerifier
	users  interfaces.UserRepository
}

func NewAuthenticator(tokens TokenVerifier, users interfaces.UserRepository) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Require rejects requests without a valid bearer token. The user record is
// looked up to resolve the role; a token for a since-deleted user yields an
// identity with an empty role so role-gated handlers still answer in terms of
// the resource (404 from profile, 403 from owner-only routes).
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			respondMessage(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		userID, err := a.tokens.Verify(tokenString)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		caller := interfaces.Identity{UserID: userID}
		user, err := a.users.FindByID(r.Context(), userID)
		switch {
		case err == nil:
			caller.Role = user.Role
		case !errors.Is(err, domain.ErrNotFound):
			respondDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
