package service

import (
	"database/sql"
	"errors"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/repository"

	"github.com/google/uuid"
)

// LineService owns the line inventory: the phone-number resources that get
// assigned to subscribers.
type LineService struct {
	lineRepo repository.ILineRepository
}

func NewLineService(lineRepo repository.ILineRepository) *LineService {
	return &LineService{lineRepo: lineRepo}
}

// CreateLine registers a new phone number. A soft-deleted line with the
// same number is resurrected instead of duplicated; a live one is a
// conflict.
func (s *LineService) CreateLine(req *model.CreateLineRequest) (*model.Line, error) {
	status := model.LineStatus(req.Status)
	if status == "" {
		status = model.LineStatusPending
	}

	existing, err := s.lineRepo.GetLineByPhoneNumber(req.PhoneNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		if !existing.Deleted {
			return nil, common.ErrConflict
		}
		existing.Deleted = false
		existing.Status = status
		existing.Label = req.Label
		existing.Note = req.Note
		if err := s.lineRepo.RestoreLine(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	line := &model.Line{
		ID:          uuid.NewString(),
		PhoneNumber: req.PhoneNumber,
		Status:      status,
		Label:       req.Label,
		Note:        req.Note,
	}
	if err := s.lineRepo.CreateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *LineService) ListLines() ([]*model.Line, error) {
	return s.lineRepo.GetAllLines()
}

func (s *LineService) UpdateLine(id string, req *model.UpdateLineRequest) (*model.Line, error) {
	line, err := s.lineRepo.GetLineByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if req.Status != "" {
		line.Status = model.LineStatus(req.Status)
	}
	if req.Label != "" {
		line.Label = req.Label
	}
	if req.Note != "" {
		line.Note = req.Note
	}

	if err := s.lineRepo.UpdateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *LineService) DeleteLine(id string) error {
	if _, err := s.lineRepo.GetLineByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return err
	}
	return s.lineRepo.SoftDeleteLine(id)
}
