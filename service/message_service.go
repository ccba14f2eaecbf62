package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/repository"
)

const messageCacheTTL = 10 * time.Minute

// DefaultPageLimit is the page size used when the caller does not ask for
// one.
const DefaultPageLimit = 50

// MessageService serves the pull-based message history: the read path
// clients use to catch up on anything they missed while disconnected.
type MessageService struct {
	repo  repository.IMessageRepository
	cache ICacheClient
}

func NewMessageService(repo repository.IMessageRepository, cache ICacheClient) *MessageService {
	return &MessageService{repo: repo, cache: cache}
}

func messageCacheKey(userID string, limit, offset int) string {
	return fmt.Sprintf("messages:%s:%d:%d", userID, limit, offset)
}

// ListMessages returns the message history visible to the caller. Admins
// see everything unmasked; a subscriber sees only their own messages, with
// the text masked wherever visibility is off. The subscriber path is served
// cache-aside from Redis; only the already-masked copies are ever cached.
func (s *MessageService) ListMessages(authUser *model.AuthUser, limit, offset int) ([]*model.Message, error) {
	if authUser.Role == model.RoleAdmin {
		return s.repo.GetAllMessages(limit, offset)
	}

	cacheKey := messageCacheKey(authUser.ID, limit, offset)
	ctx := context.Background()

	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		var messages []*model.Message
		if err := json.Unmarshal([]byte(cached), &messages); err == nil {
			return messages, nil
		}
	}

	messages, err := s.repo.GetMessagesByUserID(authUser.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, m := range messages {
		if !m.IsVisible {
			m.Message = MaskText(m.Message)
		}
	}

	if data, err := json.Marshal(messages); err == nil {
		s.cache.Set(ctx, cacheKey, data, messageCacheTTL)
	}

	return messages, nil
}

// UpdateMessage applies a moderation update (visibility or read flag) and
// returns the refreshed record.
func (s *MessageService) UpdateMessage(id string, req *model.UpdateMessageRequest) (*model.Message, error) {
	existing, err := s.repo.GetMessageByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if err := s.repo.UpdateMessage(id, req.IsVisible, req.IsRead); err != nil {
		return nil, err
	}

	s.invalidateUserCache(existing.UserID)
	return s.repo.GetMessageByID(id)
}

// DeleteMessage soft-deletes a message; the stored raw text survives for
// the audit trail.
func (s *MessageService) DeleteMessage(id string) error {
	existing, err := s.repo.GetMessageByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return err
	}

	if err := s.repo.SoftDeleteMessage(id); err != nil {
		return err
	}

	s.invalidateUserCache(existing.UserID)
	return nil
}

func (s *MessageService) invalidateUserCache(userID *string) {
	if userID == nil {
		return
	}
	// Drop the first page; deeper pages age out with the TTL.
	s.cache.Del(context.Background(), messageCacheKey(*userID, DefaultPageLimit, 0))
}
