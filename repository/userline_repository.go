package repository

import (
	"database/sql"
	"sms-relay-api/model"
)

// IUserLineRepository defines the contract for line assignment operations.
type IUserLineRepository interface {
	CreateUserLine(userLine *model.UserLine) error
	GetUserLineByID(id string) (*model.UserLine, error)
	GetUserLinesByUserID(userID string) ([]*model.UserLine, error)
	UpdateUserLineStatus(id string, status model.UserLineStatus) error
	SoftDeleteUserLine(id string) error
}

type UserLineRepository struct {
	DB *sql.DB
}

func NewUserLineRepository(db *sql.DB) *UserLineRepository {
	return &UserLineRepository{DB: db}
}

func (r *UserLineRepository) CreateUserLine(userLine *model.UserLine) error {
	query := `INSERT INTO user_lines (id, line_id, user_id, status, label) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	return r.DB.QueryRow(query, userLine.ID, userLine.LineID, userLine.UserID, userLine.Status, userLine.Label).Scan(&userLine.CreatedAt, &userLine.UpdatedAt)
}

func (r *UserLineRepository) GetUserLineByID(id string) (*model.UserLine, error) {
	ul := &model.UserLine{}
	query := `SELECT id, line_id, user_id, status, COALESCE(label, ''), COALESCE(note, ''), deleted, created_at, updated_at FROM user_lines WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&ul.ID, &ul.LineID, &ul.UserID, &ul.Status, &ul.Label, &ul.Note, &ul.Deleted, &ul.CreatedAt, &ul.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ul, nil
}

func (r *UserLineRepository) GetUserLinesByUserID(userID string) ([]*model.UserLine, error) {
	query := `SELECT id, line_id, user_id, status, COALESCE(label, ''), COALESCE(note, ''), deleted, created_at, updated_at FROM user_lines WHERE user_id = $1 AND deleted = FALSE ORDER BY updated_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userLines []*model.UserLine
	for rows.Next() {
		var ul model.UserLine
		if err := rows.Scan(&ul.ID, &ul.LineID, &ul.UserID, &ul.Status, &ul.Label, &ul.Note, &ul.Deleted, &ul.CreatedAt, &ul.UpdatedAt); err != nil {
			return nil, err
		}
		userLines = append(userLines, &ul)
	}
	return userLines, rows.Err()
}

func (r *UserLineRepository) UpdateUserLineStatus(id string, status model.UserLineStatus) error {
	query := `UPDATE user_lines SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *UserLineRepository) SoftDeleteUserLine(id string) error {
	query := `UPDATE user_lines SET deleted = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
