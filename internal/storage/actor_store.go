package storage

import (
	"errors"

	"childguard/backend/internal/models"

	"gorm.io/gorm"
)

// SaveActor persists the full actor state.
func (s *Service) SaveActor(a *models.Actor) error {
	return s.DB.Save(a).Error
}

// GetActorByID returns the actor, or nil when absent.
func (s *Service) GetActorByID(id string) (*models.Actor, error) {
	var a models.Actor
	err := s.DB.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetActorByEmail returns the actor with the given email, or nil.
func (s *Service) GetActorByEmail(email string) (*models.Actor, error) {
	var a models.Actor
	err := s.DB.First(&a, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
