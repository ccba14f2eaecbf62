package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"sms-relay-api/common"
	"sms-relay-api/logger"
	"sms-relay-api/model"
	"sms-relay-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GatewayQuery carries the query parameters the upstream SMS gateway sends
// alongside the raw body.
type GatewayQuery struct {
	Port     string `validate:"required,max=255"`
	Sender   string `validate:"required,max=255"`
	Receiver string `validate:"required,max=255"`
}

// gatewayBody is the parsed form of the fixed line-based gateway payload:
// sender and receiver on the first two lines, labelled SMSC and SCTS lines
// after them, everything else is the message text.
type gatewayBody struct {
	Sender   string
	Receiver string
	SMSC     string
	SCTS     string
	Text     string
}

func parseGatewayBody(body string) (*gatewayBody, error) {
	lines := strings.Split(body, "\n")
	if len(lines) < 4 {
		return nil, common.ErrMalformed
	}

	return &gatewayBody{
		Sender:   strings.TrimSpace(lines[0]),
		Receiver: strings.TrimSpace(lines[1]),
		SMSC:     strings.TrimSpace(strings.TrimPrefix(lines[2], "SMSC:")),
		SCTS:     strings.TrimSpace(strings.TrimPrefix(lines[3], "SCTS:")),
		Text:     strings.Join(lines[4:], "\n"),
	}, nil
}

// GatewayService is the single entry point for inbound messages. It owns
// the ordering between persistence, visibility resolution and live
// delivery.
type GatewayService struct {
	messageRepo repository.IMessageRepository
	lineRepo    repository.ILineRepository
	hub         *Hub
}

func NewGatewayService(messageRepo repository.IMessageRepository, lineRepo repository.ILineRepository, hub *Hub) *GatewayService {
	return &GatewayService{
		messageRepo: messageRepo,
		lineRepo:    lineRepo,
		hub:         hub,
	}
}

// ProcessMessage runs the full ingestion pipeline for one raw gateway
// payload: parse, persist, resolve ownership and visibility, then push to
// whoever is allowed to see it. Persistence is authoritative; delivery is
// best effort and never fails the pipeline.
func (s *GatewayService) ProcessMessage(body string, query *GatewayQuery) (*model.GatewayAck, error) {
	parsed, err := parseGatewayBody(body)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:       uuid.NewString(),
		Sender:   query.Sender,
		Receiver: query.Receiver,
		SMSC:     parsed.SMSC,
		SCTS:     parsed.SCTS,
		Port:     query.Port,
		Message:  parsed.Text,
	}
	if err := s.messageRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	visibility := s.resolve(query.Receiver)

	if err := s.messageRepo.SetOwnership(message.ID, visibility.UserID, visibility.Visible); err != nil {
		return nil, err
	}
	message.UserID = visibility.UserID
	message.IsVisible = visibility.Visible

	s.deliver(message, visibility)

	return &model.GatewayAck{Success: true, ID: message.ID}, nil
}

// resolve looks up the receiving line's assignment. Any resolver failure is
// treated as "no owner, not visible" so a storage hiccup can never leak a
// message.
func (s *GatewayService) resolve(receiver string) Visibility {
	line, err := s.lineRepo.GetLineByPhoneNumber(receiver)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithError(err).WithField("receiver", receiver).Error("Visibility resolution failed, treating message as not visible")
		}
		return Visibility{}
	}
	if line.Deleted {
		return Visibility{}
	}
	return ResolveVisibility(line)
}

// deliver pushes the message to the owning account's live channels (masked
// unless visible) and an unmasked copy to connected administrators. The
// wire payload never carries the owning user reference.
func (s *GatewayService) deliver(message *model.Message, visibility Visibility) {
	payload := model.MessagePayload{
		ID:        message.ID,
		Sender:    message.Sender,
		Receiver:  message.Receiver,
		SMSC:      message.SMSC,
		SCTS:      message.SCTS,
		Port:      message.Port,
		Message:   message.Message,
		IsVisible: message.IsVisible,
		CreatedAt: message.CreatedAt,
	}

	adminCopy, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to encode admin delivery payload")
		return
	}
	s.hub.DeliverToAdmins(adminCopy)

	if visibility.UserID == nil {
		return
	}

	if !visibility.Visible {
		payload.Message = MaskText(payload.Message)
	}
	ownerCopy, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to encode delivery payload")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id": message.ID,
		"user_id":    *visibility.UserID,
		"is_visible": visibility.Visible,
	}).Info("Delivering message to owner channels")
	s.hub.DeliverToAccount(*visibility.UserID, ownerCopy)
}
