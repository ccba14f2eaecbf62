package service

import (
	"sms-relay-api/logger"
	"sms-relay-api/model"
	"sync"

	"github.com/sirupsen/logrus"
)

// Channel is one live delivery path to a connected client. The websocket
// handler provides the concrete implementation.
type Channel interface {
	Send(payload []byte) error
	Close() error
}

// Hub tracks which accounts currently hold open channels and fans payloads
// out to them. State is purely in-memory; a restart starts from an empty
// registry and clients reconnect.
type Hub struct {
	mu sync.RWMutex
	// rooms maps a user id to that user's open channels (multi-device).
	rooms map[string]map[Channel]struct{}
	// admins holds the channels of connected administrators, which receive
	// every inbound message unmasked.
	admins map[Channel]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[Channel]struct{}),
		admins: make(map[Channel]struct{}),
	}
}

// Admit registers an authenticated channel. Call only after token
// validation has succeeded for the connecting party.
func (h *Hub) Admit(ch Channel, user *model.AuthUser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[user.ID]
	if !ok {
		room = make(map[Channel]struct{})
		h.rooms[user.ID] = room
	}
	room[ch] = struct{}{}

	if user.Role == model.RoleAdmin {
		h.admins[ch] = struct{}{}
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"channels": len(room),
	}).Info("Channel admitted to hub")
}

// Remove unregisters a channel. Removing a channel that is already gone is
// a no-op; the account entry is dropped once its last channel leaves.
func (h *Hub) Remove(ch Channel, user *model.AuthUser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[user.ID]; ok {
		delete(room, ch)
		if len(room) == 0 {
			delete(h.rooms, user.ID)
		}
	}
	delete(h.admins, ch)
}

// DeliverToAccount sends the payload to every channel the account currently
// holds. Delivery is best effort: with no channels registered the payload is
// dropped, and one failing channel does not stop the others.
func (h *Hub) DeliverToAccount(userID string, payload []byte) {
	h.mu.RLock()
	channels := make([]Channel, 0, len(h.rooms[userID]))
	for ch := range h.rooms[userID] {
		channels = append(channels, ch)
	}
	h.mu.RUnlock()

	// Sends happen outside the lock so a slow socket cannot block admits.
	for _, ch := range channels {
		if err := ch.Send(payload); err != nil {
			logger.Log.WithError(err).WithField("user_id", userID).Warn("Failed to deliver payload to channel")
		}
	}
}

// DeliverToAdmins sends the payload to every connected administrator.
func (h *Hub) DeliverToAdmins(payload []byte) {
	h.mu.RLock()
	channels := make([]Channel, 0, len(h.admins))
	for ch := range h.admins {
		channels = append(channels, ch)
	}
	h.mu.RUnlock()

	for _, ch := range channels {
		if err := ch.Send(payload); err != nil {
			logger.Log.WithError(err).Warn("Failed to deliver payload to admin channel")
		}
	}
}

// BroadcastAll sends the payload to every registered channel across all
// accounts.
func (h *Hub) BroadcastAll(payload []byte) {
	h.mu.RLock()
	var channels []Channel
	for _, room := range h.rooms {
		for ch := range room {
			channels = append(channels, ch)
		}
	}
	h.mu.RUnlock()

	for _, ch := range channels {
		if err := ch.Send(payload); err != nil {
			logger.Log.WithError(err).Warn("Failed to broadcast payload to channel")
		}
	}
}

// ChannelCount reports how many channels an account currently holds.
func (h *Hub) ChannelCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
