package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/promptforge/promptforge/internal/auth"
	"github.com/promptforge/promptforge/internal/model"
	"github.com/promptforge/promptforge/internal/repository"
)

// UserGetter loads users for session validation. *repository.Repository
// satisfies it.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenIssuer
	Users  UserGetter
}

// Session returns a middleware that authenticates requests with a
// bearer session token. The token carries identity only; quota
// counters are re-read from the store on every request so the session
// never authorizes spending against a stale snapshot.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeSessionError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				cfg.Logger.Warn("session rejected",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					// Valid token for an account that no longer exists.
					cfg.Logger.Warn("session rejected",
						slog.String("reason", "user_not_found"),
						slog.String("user_id", claims.Subject),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeSessionError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
					return
				}
				cfg.Logger.Error("database error during session check",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
				return
			}

			session := &model.Session{
				UserID:         user.ID,
				Email:          user.Email,
				Name:           user.Name,
				BasicRemaining: user.BasicRemaining,
				ProRemaining:   user.ProRemaining,
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the session token from the
// Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeSessionError writes a JSON error response.
// Uses the same message for all token failures to prevent probing.
func writeSessionError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
