package service

import (
	"errors"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/utilities"
)

type UserService interface {
	GetAllUsers() ([]model.User, error)
	DeleteUser(id string) error
}

type userService struct {
	userRepo repository.UserRepository
	events   *utilities.EventBus
}

func NewUserService(userRepo repository.UserRepository, events *utilities.EventBus) UserService {
	return &userService{userRepo: userRepo, events: events}
}

func (s *userService) GetAllUsers() ([]model.User, error) {
	return s.userRepo.GetAllUsers()
}

// DeleteUser removes the account; its results are kept.
func (s *userService) DeleteUser(id string) error {
	err := s.userRepo.DeleteUser(id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if s.events != nil {
		s.events.Publish(utilities.EventUserDeleted, id)
	}
	return nil
}
