// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateContactInput defines the data required to create a delivery contact.
// City, street, house and phone are required; the rest refine the address.
type CreateContactInput struct {
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// ContactUsecase defines the interface for delivery contact operations.
// Contacts always belong to the caller; there is no cross-user access.
type ContactUsecase interface {
	CreateContact(ctx context.Context, userID uuid.UUID, input CreateContactInput) (*entity.Contact, error)
	ListContacts(ctx context.Context, userID uuid.UUID) ([]*entity.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error
}
