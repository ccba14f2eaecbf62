package handler

import (
	"encoding/json"
	"net/http"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: authService}
}

// Register godoc
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "registration payload"
// @Success      201 {object} map[string]interface{}
// @Router       /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, pair, err := h.Service.Register(&req)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": pair,
	})
	return nil
}

// Login godoc
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "credentials"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	user, pair, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": pair,
	})
	return nil
}

// RefreshToken godoc
// @Summary      Exchange a refresh token for a fresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshTokenRequest true "refresh token"
// @Success      200 {object} model.TokenPair
// @Failure      401 {object} common.AppError
// @Security     BearerAuth
// @Router       /refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	authUser := AuthUserFromContext(r.Context())
	if authUser == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	var req model.RefreshTokenRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	pair, err := h.Service.Rotate(authUser.ID, req.RefreshToken)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"token": pair})
	return nil
}

// Logout godoc
// @Summary      Revoke the current session
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Security     BearerAuth
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	authUser := AuthUserFromContext(r.Context())
	if authUser == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	if err := h.Service.RevokeSession(authUser.SessionID); err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User logged out successfully"})
	return nil
}
