package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	serverauth "travelex/internal/stubserver/auth"
)

type Auth struct {
	secret []byte
	log    *slog.Logger
}

func New(secret []byte, log *slog.Logger) *Auth {
	return &Auth{
		secret: secret,
		log:    log.With("component", "auth_middleware"),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware rejects requests without a valid bearer token and puts the
// operator id on the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			a.unauthorized(ctx, "missing bearer token")
			return
		}

		userID, err := serverauth.UserIDFromToken(strings.TrimPrefix(header, "Bearer "), a.secret)
		if err != nil {
			a.log.Debug("token rejected", "error", err)
			a.unauthorized(ctx, "token expired or invalid")
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) unauthorized(ctx huma.Context, detail string) {
	ctx.SetStatus(http.StatusUnauthorized)
	ctx.SetHeader("Content-Type", "application/json")

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{"detail": detail}); err != nil {
		a.log.Error("failed to write 401 body", "error", err)
	}
}

func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
