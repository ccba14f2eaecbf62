package handler

import (
	"context"
	"net/http"
	"strings"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
)

type contextKey string

const AuthUserKey contextKey = "authUser"

// AuthUserFromContext returns the authenticated identity set by
// AuthMiddleware, or nil when the request was not authenticated.
func AuthUserFromContext(ctx context.Context) *model.AuthUser {
	user, _ := ctx.Value(AuthUserKey).(*model.AuthUser)
	return user
}

// AuthMiddleware validates the bearer token on every request through the
// token authority, so a revoked or expired session stops working
// immediately, not just at JWT expiry.
func AuthMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil).Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil).Send(w)
				return
			}

			authUser, err := auth.ValidateAccess(headerParts[1])
			if err != nil {
				common.FromError(err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware requires an already authenticated admin identity.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser := AuthUserFromContext(r.Context())
		if authUser == nil || authUser.Role != model.RoleAdmin {
			common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
