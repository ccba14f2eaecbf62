package handler

import (
	"encoding/json"
	"net/http"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
)

// LineHandler exposes the admin surface for lines and their assignments.
type LineHandler struct {
	Lines     *service.LineService
	UserLines *service.UserLineService
}

func NewLineHandler(lineService *service.LineService, userLineService *service.UserLineService) *LineHandler {
	return &LineHandler{Lines: lineService, UserLines: userLineService}
}

// CreateLine godoc
// @Summary      Register a phone number
// @Tags         lines
// @Accept       json
// @Produce      json
// @Param        request body model.CreateLineRequest true "line"
// @Success      201 {object} model.Line
// @Security     BearerAuth
// @Router       /lines [post]
func (h *LineHandler) CreateLine(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateLineRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	line, err := h.Lines.CreateLine(&req)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(line)
	return nil
}

// ListLines godoc
// @Summary      List phone numbers
// @Tags         lines
// @Produce      json
// @Success      200 {array} model.Line
// @Security     BearerAuth
// @Router       /lines [get]
func (h *LineHandler) ListLines(w http.ResponseWriter, r *http.Request) *common.AppError {
	lines, err := h.Lines.ListLines()
	if err != nil {
		return common.FromError(err)
	}
	if lines == nil {
		lines = []*model.Line{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lines)
	return nil
}

// UpdateLine godoc
// @Summary      Update a phone number
// @Tags         lines
// @Accept       json
// @Produce      json
// @Param        id      path string true "line id"
// @Param        request body model.UpdateLineRequest true "fields to update"
// @Success      200 {object} model.Line
// @Security     BearerAuth
// @Router       /lines/{id} [patch]
func (h *LineHandler) UpdateLine(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateLineRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	line, err := h.Lines.UpdateLine(r.PathValue("id"), &req)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(line)
	return nil
}

// DeleteLine godoc
// @Summary      Soft delete a phone number
// @Tags         lines
// @Param        id path string true "line id"
// @Success      204
// @Security     BearerAuth
// @Router       /lines/{id} [delete]
func (h *LineHandler) DeleteLine(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.Lines.DeleteLine(r.PathValue("id")); err != nil {
		return common.FromError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// AssignLine godoc
// @Summary      Assign a line to a user
// @Tags         lines
// @Accept       json
// @Produce      json
// @Param        request body model.CreateUserLineRequest true "assignment"
// @Success      201 {object} model.UserLine
// @Security     BearerAuth
// @Router       /user-lines [post]
func (h *LineHandler) AssignLine(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateUserLineRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userLine, err := h.UserLines.AssignLine(&req)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(userLine)
	return nil
}

// ListAssignments godoc
// @Summary      List a user's line assignments
// @Tags         lines
// @Produce      json
// @Param        user_id query string true "user id"
// @Success      200 {array} model.UserLine
// @Security     BearerAuth
// @Router       /user-lines [get]
func (h *LineHandler) ListAssignments(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		return common.NewAppError(http.StatusBadRequest, "user_id query parameter is required", nil)
	}

	userLines, err := h.UserLines.ListForUser(userID)
	if err != nil {
		return common.FromError(err)
	}
	if userLines == nil {
		userLines = []*model.UserLine{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userLines)
	return nil
}

// UpdateAssignment godoc
// @Summary      Update a line assignment's status
// @Tags         lines
// @Accept       json
// @Produce      json
// @Param        id      path string true "assignment id"
// @Param        request body model.UpdateUserLineRequest true "new status"
// @Success      200 {object} model.UserLine
// @Security     BearerAuth
// @Router       /user-lines/{id} [patch]
func (h *LineHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateUserLineRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userLine, err := h.UserLines.UpdateStatus(r.PathValue("id"), model.UserLineStatus(req.Status))
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userLine)
	return nil
}
