package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"sms-relay-api/common"
	"sms-relay-api/service"
)

// GatewayHandler receives inbound messages from the upstream SMS gateway.
type GatewayHandler struct {
	Service *service.GatewayService
}

func NewGatewayHandler(gatewayService *service.GatewayService) *GatewayHandler {
	return &GatewayHandler{Service: gatewayService}
}

// ProcessMessage godoc
// @Summary      Ingest an inbound message from the SMS gateway
// @Tags         gateway
// @Accept       plain
// @Produce      json
// @Param        port     query string true "receiving modem port"
// @Param        sender   query string true "sender address"
// @Param        receiver query string true "destination line"
// @Success      200 {object} model.GatewayAck
// @Failure      400 {object} common.AppError
// @Router       /gateway/message [post]
func (h *GatewayHandler) ProcessMessage(w http.ResponseWriter, r *http.Request) *common.AppError {
	query := &service.GatewayQuery{
		Port:     r.URL.Query().Get("port"),
		Sender:   r.URL.Query().Get("sender"),
		Receiver: r.URL.Query().Get("receiver"),
	}
	if err := common.ValidateStruct(query); err != nil {
		return common.NewAppError(http.StatusBadRequest, "Missing or invalid gateway query parameters", err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Failed to read request body", err)
	}

	ack, err := h.Service.ProcessMessage(string(body), query)
	if err != nil {
		return common.FromError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ack)
	return nil
}
