package service

import (
	"errors"
	"sms-relay-api/model"
	"sms-relay-api/repository"
)

// UserService handles user administration.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID string, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}
	return s.userRepo.UpdateUserRole(userID, string(newRole))
}
