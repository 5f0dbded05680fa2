package services

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ContactService stores messages from the contact form for staff to read.
type ContactService struct {
	messages repositories.ContactRepository
}

func NewContactService(messages repositories.ContactRepository) *ContactService {
	return &ContactService{messages: messages}
}

// Send stores message as a new entry.
func (s *ContactService) Send(ctx context.Context, message *models.ContactMessage) error {
	message.ID = 0
	if err := s.messages.Create(ctx, message); err != nil {
		return err
	}
	zap.L().Info("contact message received", zap.Uint("message_id", message.ID), zap.String("email", message.Email))
	return nil
}

// List returns all contact messages, newest first.
func (s *ContactService) List(ctx context.Context) ([]models.ContactMessage, error) {
	return s.messages.List(ctx)
}
