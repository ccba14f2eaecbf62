package service

import (
	"database/sql"
	"errors"

	"sms-relay-api/common"
	"sms-relay-api/model"
	"sms-relay-api/repository"

	"github.com/google/uuid"
)

// UserLineService manages line assignments: which subscriber holds which
// line, and in what state.
type UserLineService struct {
	userLineRepo repository.IUserLineRepository
	lineRepo     repository.ILineRepository
}

func NewUserLineService(userLineRepo repository.IUserLineRepository, lineRepo repository.ILineRepository) *UserLineService {
	return &UserLineService{userLineRepo: userLineRepo, lineRepo: lineRepo}
}

// AssignLine creates an assignment between a user and a line and marks the
// line allocated. A line that already carries a live assignment cannot be
// assigned again.
func (s *UserLineService) AssignLine(req *model.CreateUserLineRequest) (*model.UserLine, error) {
	line, err := s.lineRepo.GetLineByID(req.LineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if line.Deleted {
		return nil, common.ErrNotFound
	}
	if line.Status == model.LineStatusAllocated {
		return nil, common.ErrConflict
	}

	status := model.UserLineStatus(req.Status)
	if status == "" {
		status = model.UserLineStatusPending
	}

	userLine := &model.UserLine{
		ID:     uuid.NewString(),
		LineID: req.LineID,
		UserID: req.UserID,
		Status: status,
		Label:  req.Label,
	}
	if err := s.userLineRepo.CreateUserLine(userLine); err != nil {
		return nil, err
	}

	line.Status = model.LineStatusAllocated
	if err := s.lineRepo.UpdateLine(line); err != nil {
		return nil, err
	}

	return userLine, nil
}

// UpdateStatus moves an assignment through its lifecycle. Releasing an
// assignment soft-deletes it and hands the line back to the available pool.
func (s *UserLineService) UpdateStatus(id string, status model.UserLineStatus) (*model.UserLine, error) {
	userLine, err := s.userLineRepo.GetUserLineByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if err := s.userLineRepo.UpdateUserLineStatus(id, status); err != nil {
		return nil, err
	}
	userLine.Status = status

	if status == model.UserLineStatusReleased {
		if err := s.userLineRepo.SoftDeleteUserLine(id); err != nil {
			return nil, err
		}
		line, err := s.lineRepo.GetLineByID(userLine.LineID)
		if err == nil {
			line.Status = model.LineStatusAvailable
			if err := s.lineRepo.UpdateLine(line); err != nil {
				return nil, err
			}
		}
	}

	return userLine, nil
}

// ListForUser returns a user's live assignments.
func (s *UserLineService) ListForUser(userID string) ([]*model.UserLine, error) {
	return s.userLineRepo.GetUserLinesByUserID(userID)
}
