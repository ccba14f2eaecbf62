package handler

import (
	"encoding/json"
	"net/http"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{Service: userService}
}

// ListUsers godoc
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Success      200 {array} model.User
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.Service.ListUsers()
	if err != nil {
		return common.FromError(err)
	}
	if users == nil {
		users = []*model.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
	return nil
}

// UpdateRole godoc
// @Summary      Change an account's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string true "user id"
// @Param        request body model.UpdateRoleRequest true "new role"
// @Success      200 {object} map[string]string
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateRoleRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.Service.UpdateUserRole(r.PathValue("id"), model.Role(req.Role)); err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Role updated successfully"})
	return nil
}
