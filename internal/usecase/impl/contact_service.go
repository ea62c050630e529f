// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// contactService implements the ContactUsecase interface.
type contactService struct {
	contactRepo repository.ContactRepository
	logger      *slog.Logger
}

// ContactServiceParams holds dependencies for contactService, injected by Fx.
type ContactServiceParams struct {
	fx.In

	ContactRepo repository.ContactRepository
	Logger      *slog.Logger
}

// NewContactService is the constructor for contactService.
func NewContactService(params ContactServiceParams) usecase.ContactUsecase {
	return &contactService{
		contactRepo: params.ContactRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *contactService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateContact stores a new delivery contact owned by the caller.
func (srv *contactService) CreateContact(ctx context.Context, userID uuid.UUID, input usecase.CreateContactInput) (*entity.Contact, error) {
	srv.log(ctx).Debug("Creating contact", slog.Any("userID", userID))

	contact := &entity.Contact{
		UserID:    userID,
		City:      input.City,
		Street:    input.Street,
		House:     input.House,
		Structure: input.Structure,
		Building:  input.Building,
		Apartment: input.Apartment,
		Phone:     input.Phone,
	}

	// Single insert - use direct repository instance
	if err := srv.contactRepo.Create(ctx, contact); err != nil {
		srv.log(ctx).Error("Failed to create contact", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create contact")
	}
	srv.log(ctx).Debug("Contact created", slog.Any("contactID", contact.ID))

	return contact, nil
}

// ListContacts returns all delivery contacts owned by the caller.
func (srv *contactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]*entity.Contact, error) {
	contacts, err := srv.contactRepo.FindByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list contacts", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list contacts")
	}

	return contacts, nil
}

// DeleteContact removes one of the caller's contacts after an ownership check.
func (srv *contactService) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error {
	contact, err := srv.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return errors.Wrap(domainerrors.ErrContactNotFound, "contact not found")
		}

		return errors.Wrap(err, "failed to find contact")
	}

	if contact.UserID != userID {
		return errors.Wrap(domainerrors.ErrContactOwnershipViolation, "contact does not belong to user")
	}

	if err := srv.contactRepo.Delete(ctx, contactID); err != nil {
		srv.log(ctx).Error("Failed to delete contact", slog.Any("contactID", contactID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete contact")
	}

	return nil
}
