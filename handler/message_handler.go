package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/service"
)

type MessageHandler struct {
	Service *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{Service: messageService}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = service.DefaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// ListMessages godoc
// @Summary      List message history for the caller
// @Tags         messages
// @Produce      json
// @Param        limit  query int false "page size"
// @Param        offset query int false "page offset"
// @Success      200 {array} model.Message
// @Security     BearerAuth
// @Router       /messages [get]
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) *common.AppError {
	authUser := AuthUserFromContext(r.Context())
	if authUser == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	limit, offset := pagination(r)
	messages, err := h.Service.ListMessages(authUser, limit, offset)
	if err != nil {
		return common.FromError(err)
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
	return nil
}

// UpdateMessage godoc
// @Summary      Moderation update of a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id      path string true "message id"
// @Param        request body model.UpdateMessageRequest true "fields to update"
// @Success      200 {object} model.Message
// @Security     BearerAuth
// @Router       /messages/{id} [patch]
func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateMessageRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	message, err := h.Service.UpdateMessage(r.PathValue("id"), &req)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(message)
	return nil
}

// DeleteMessage godoc
// @Summary      Soft delete a message
// @Tags         messages
// @Param        id path string true "message id"
// @Success      204
// @Security     BearerAuth
// @Router       /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.Service.DeleteMessage(r.PathValue("id")); err != nil {
		return common.FromError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
