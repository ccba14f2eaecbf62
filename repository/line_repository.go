package repository

import (
	"database/sql"
	"sms-relay-api/logger"
	"sms-relay-api/model"
)

// ILineRepository defines the contract for line database operations.
type ILineRepository interface {
	CreateLine(line *model.Line) error
	GetLineByID(id string) (*model.Line, error)
	GetLineByPhoneNumber(phoneNumber string) (*model.Line, error)
	GetAllLines() ([]*model.Line, error)
	UpdateLine(line *model.Line) error
	RestoreLine(line *model.Line) error
	SoftDeleteLine(id string) error
}

type LineRepository struct {
	DB *sql.DB
}

func NewLineRepository(db *sql.DB) *LineRepository {
	return &LineRepository{DB: db}
}

func (r *LineRepository) CreateLine(line *model.Line) error {
	log := logger.Log.WithField("phone_number", line.PhoneNumber)
	log.Info("Executing query to create a new line")

	query := `INSERT INTO lines (id, phone_number, status, label, note) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := r.DB.QueryRow(query, line.ID, line.PhoneNumber, line.Status, line.Label, line.Note).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create line query")
		return err
	}
	return nil
}

func (r *LineRepository) GetLineByID(id string) (*model.Line, error) {
	line := &model.Line{}
	query := `SELECT id, phone_number, status, label, note, deleted, created_at, updated_at FROM lines WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&line.ID, &line.PhoneNumber, &line.Status, &line.Label, &line.Note, &line.Deleted, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return line, nil
}

// GetLineByPhoneNumber retrieves a line together with its current (not soft
// deleted) assignment and the assigned user's account status. The assignment
// fields are NULL when the line is unassigned.
func (r *LineRepository) GetLineByPhoneNumber(phoneNumber string) (*model.Line, error) {
	log := logger.Log.WithField("phone_number", phoneNumber)
	log.Info("Executing query to get line by phone number")

	line := &model.Line{}
	var ulID, ulUserID sql.NullString
	var ulStatus, userStatus sql.NullString

	query := `SELECT l.id, l.phone_number, l.status, COALESCE(l.label, ''), COALESCE(l.note, ''), l.deleted, l.created_at, l.updated_at,
			ul.id, ul.user_id, ul.status, u.status
		FROM lines l
		LEFT JOIN user_lines ul ON ul.line_id = l.id AND ul.deleted = FALSE
		LEFT JOIN users u ON u.id = ul.user_id
		WHERE l.phone_number = $1`
	err := r.DB.QueryRow(query, phoneNumber).Scan(
		&line.ID, &line.PhoneNumber, &line.Status, &line.Label, &line.Note, &line.Deleted, &line.CreatedAt, &line.UpdatedAt,
		&ulID, &ulUserID, &ulStatus, &userStatus,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get line by phone number query")
		}
		return nil, err
	}

	if ulID.Valid {
		line.UserLine = &model.UserLine{
			ID:         ulID.String,
			LineID:     line.ID,
			UserID:     ulUserID.String,
			Status:     model.UserLineStatus(ulStatus.String),
			UserStatus: model.UserStatus(userStatus.String),
		}
	}
	return line, nil
}

func (r *LineRepository) GetAllLines() ([]*model.Line, error) {
	query := `SELECT id, phone_number, status, COALESCE(label, ''), COALESCE(note, ''), deleted, created_at, updated_at FROM lines WHERE deleted = FALSE ORDER BY updated_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*model.Line
	for rows.Next() {
		var l model.Line
		if err := rows.Scan(&l.ID, &l.PhoneNumber, &l.Status, &l.Label, &l.Note, &l.Deleted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

func (r *LineRepository) UpdateLine(line *model.Line) error {
	query := `UPDATE lines SET status = $1, label = $2, note = $3, updated_at = NOW() WHERE id = $4`
	_, err := r.DB.Exec(query, line.Status, line.Label, line.Note, line.ID)
	return err
}

// RestoreLine clears the soft delete flag of a previously deleted line and
// refreshes its status and notes.
func (r *LineRepository) RestoreLine(line *model.Line) error {
	query := `UPDATE lines SET deleted = FALSE, status = $1, label = $2, note = $3, updated_at = NOW() WHERE id = $4`
	_, err := r.DB.Exec(query, line.Status, line.Label, line.Note, line.ID)
	return err
}

func (r *LineRepository) SoftDeleteLine(id string) error {
	query := `UPDATE lines SET deleted = TRUE, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
