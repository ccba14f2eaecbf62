package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *model.User, string) {
	t.Helper()

	userRepo := newFakeUserRepo()
	authService := service.NewAuthService(userRepo, newFakeTokenRepo())

	hashed, err := authService.HashPassword("password123")
	assert.NoError(t, err)
	user := &model.User{
		ID:       "user-1",
		NickName: "tester",
		Email:    "tester@example.com",
		Password: hashed,
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	assert.NoError(t, userRepo.CreateUser(user))

	pair, err := authService.IssuePair(user)
	assert.NoError(t, err)

	return authService, user, pair.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	authService, user, accessToken := newAuthFixture(t)

	var seen *model.AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AuthUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(authService)(next)

	t.Run("valid token reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/messages", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.ID)
		assert.Equal(t, model.RoleUser, seen.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest("GET", "/messages", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})

	t.Run("malformed header", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest("GET", "/messages", nil)
		req.Header.Set("Authorization", accessToken)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})

	t.Run("garbage token", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest("GET", "/messages", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})

	t.Run("revoked session is rejected", func(t *testing.T) {
		seen = nil
		authUser, err := authService.ValidateAccess(accessToken)
		assert.NoError(t, err)
		assert.NoError(t, authService.RevokeSession(authUser.SessionID))

		req := httptest.NewRequest("GET", "/messages", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	authService := service.NewAuthService(userRepo, newFakeTokenRepo())

	user := &model.User{
		ID:     "user-1",
		Email:  "tester@example.com",
		Role:   model.RoleUser,
		Status: model.UserStatusActive,
	}
	assert.NoError(t, userRepo.CreateUser(user))

	pair, err := authService.IssuePair(user)
	assert.NoError(t, err)

	authUser, err := authService.ValidateAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.NoError(t, authService.RevokeSession(authUser.SessionID))

	// The revoked pair is spent for rotation too, not just for access.
	_, err = authService.Rotate(user.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrDenied)
}

func TestAdminMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := AdminMiddleware(next)

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users", nil)
		authUser := &model.AuthUser{ID: "admin-1", Role: model.RoleAdmin}
		req = req.WithContext(context.WithValue(req.Context(), AuthUserKey, authUser))
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users", nil)
		authUser := &model.AuthUser{ID: "user-1", Role: model.RoleUser}
		req = req.WithContext(context.WithValue(req.Context(), AuthUserKey, authUser))
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unauthenticated is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
