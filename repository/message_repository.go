package repository

import (
	"database/sql"
	"sms-relay-api/logger"
	"sms-relay-api/model"

	"github.com/sirupsen/logrus"
)

// IMessageRepository defines the contract for inbound message persistence.
type IMessageRepository interface {
	CreateMessage(message *model.Message) error
	GetMessageByID(id string) (*model.Message, error)
	SetOwnership(id string, userID *string, isVisible bool) error
	GetMessagesByUserID(userID string, limit, offset int) ([]*model.Message, error)
	GetAllMessages(limit, offset int) ([]*model.Message, error)
	UpdateMessage(id string, isVisible *bool, isRead *bool) error
	SoftDeleteMessage(id string) error
}

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

// CreateMessage persists a freshly ingested message. The stored text is the
// raw gateway body; masking only ever happens on the way out.
func (r *MessageRepository) CreateMessage(message *model.Message) error {
	log := logger.Log.WithFields(logrus.Fields{
		"sender":   message.Sender,
		"receiver": message.Receiver,
	})
	log.Info("Executing query to create a new message")

	query := `INSERT INTO messages (id, sender, receiver, smsc, scts, port, message, is_visible, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query, message.ID, message.Sender, message.Receiver, message.SMSC, message.SCTS,
		message.Port, message.Message, message.IsVisible, message.UserID).Scan(&message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create message query")
		return err
	}
	return nil
}

func (r *MessageRepository) GetMessageByID(id string) (*model.Message, error) {
	message := &model.Message{}
	var userID sql.NullString
	query := `SELECT id, sender, receiver, COALESCE(smsc, ''), COALESCE(scts, ''), COALESCE(port, ''), message, is_visible, is_read, user_id, deleted, created_at, updated_at FROM messages WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&message.ID, &message.Sender, &message.Receiver, &message.SMSC, &message.SCTS,
		&message.Port, &message.Message, &message.IsVisible, &message.IsRead, &userID, &message.Deleted, &message.CreatedAt, &message.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		message.UserID = &userID.String
	}
	return message, nil
}

// SetOwnership records the resolved owning account and visibility for a
// persisted message.
func (r *MessageRepository) SetOwnership(id string, userID *string, isVisible bool) error {
	log := logger.Log.WithFields(logrus.Fields{
		"message_id": id,
		"is_visible": isVisible,
	})
	log.Info("Executing query to set message ownership")

	query := `UPDATE messages SET user_id = $1, is_visible = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.DB.Exec(query, userID, isVisible, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute set message ownership query")
		return err
	}
	return nil
}

func (r *MessageRepository) GetMessagesByUserID(userID string, limit, offset int) ([]*model.Message, error) {
	query := `SELECT id, sender, receiver, COALESCE(smsc, ''), COALESCE(scts, ''), COALESCE(port, ''), message, is_visible, is_read, user_id, deleted, created_at, updated_at
		FROM messages WHERE user_id = $1 AND deleted = FALSE ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *MessageRepository) GetAllMessages(limit, offset int) ([]*model.Message, error) {
	query := `SELECT id, sender, receiver, COALESCE(smsc, ''), COALESCE(scts, ''), COALESCE(port, ''), message, is_visible, is_read, user_id, deleted, created_at, updated_at
		FROM messages WHERE deleted = FALSE ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*model.Message, error) {
	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		var userID sql.NullString
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.SMSC, &m.SCTS, &m.Port, &m.Message,
			&m.IsVisible, &m.IsRead, &userID, &m.Deleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			m.UserID = &userID.String
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// UpdateMessage applies a moderation update. Nil fields are left untouched.
func (r *MessageRepository) UpdateMessage(id string, isVisible *bool, isRead *bool) error {
	query := `UPDATE messages SET
		is_visible = COALESCE($1, is_visible),
		is_read = COALESCE($2, is_read),
		updated_at = NOW()
		WHERE id = $3`
	_, err := r.DB.Exec(query, isVisible, isRead, id)
	return err
}

func (r *MessageRepository) SoftDeleteMessage(id string) error {
	query := `UPDATE messages SET deleted = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
