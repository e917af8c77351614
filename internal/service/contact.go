package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"IAmFine/internal/model"
	"IAmFine/internal/repository"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/utils"
)

type ContactService struct {
	users      repository.UserStore
	contacts   repository.ContactStore
	maxPerUser int
	logger     *zap.Logger
}

func NewContactService(users repository.UserStore, contacts repository.ContactStore, maxPerUser int, logger *zap.Logger) *ContactService {
	return &ContactService{
		users:      users,
		contacts:   contacts,
		maxPerUser: maxPerUser,
		logger:     logger,
	}
}

// CreateContact adds one emergency contact. Priority must be unique per user
// and inside [1, maxPerUser]; the (user, priority) unique index backstops the
// pre-check for concurrent creates.
func (s *ContactService) CreateContact(ctx context.Context, userID string, req model.CreateContactRequest) (*model.ContactItem, error) {
	if req.Priority < 1 || req.Priority > s.maxPerUser {
		return nil, pkgerrors.ContactPriorityConflict
	}

	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	existing, err := s.contacts.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	if len(existing) >= s.maxPerUser {
		return nil, pkgerrors.ContactLimitReached
	}

	for _, contact := range existing {
		if contact.Priority == req.Priority {
			return nil, pkgerrors.ContactPriorityConflict
		}
	}

	contact := &model.Contact{
		UserID:       user.ID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Relationship: req.Relationship,
		Priority:     req.Priority,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.ContactPriorityConflict
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info("Contact created",
		zap.Int64("user_id", user.PublicID),
		zap.Int64("contact_id", contact.ID),
		zap.Int("priority", contact.Priority),
	)

	return toContactItem(contact), nil
}

func (s *ContactService) ListContacts(ctx context.Context, userID string) ([]model.ContactItem, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	contacts, err := s.contacts.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}

	result := make([]model.ContactItem, 0, len(contacts))
	for i := range contacts {
		result = append(result, *toContactItem(&contacts[i]))
	}
	return result, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, userID string, contactID int64) error {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to query user: %w", err)
	}

	deleted, err := s.contacts.Delete(ctx, user.ID, contactID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !deleted {
		return pkgerrors.ContactNotFound
	}

	s.logger.Info("Contact deleted",
		zap.Int64("user_id", user.PublicID),
		zap.Int64("contact_id", contactID),
	)

	return nil
}

func toContactItem(c *model.Contact) *model.ContactItem {
	return &model.ContactItem{
		ID:           c.ID,
		Name:         c.Name,
		PhoneMasked:  utils.MaskPhone(c.Phone),
		Email:        c.Email,
		Relationship: c.Relationship,
		Priority:     c.Priority,
		Verified:     c.Verified,
		CreatedAt:    c.CreatedAt,
	}
}
