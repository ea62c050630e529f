// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrContactNotFound is a domain-specific error returned when a contact is not found.
var ErrContactNotFound = errors.New("contact not found")

// ContactRepository defines the standard operations for delivery contact persistence.
type ContactRepository interface {
	// Create persists a new contact entity to the storage.
	Create(ctx context.Context, contact *entity.Contact) error

	// FindByID retrieves a single contact by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contact, error)

	// FindByUserID retrieves all contacts owned by the given user.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Contact, error)

	// Update modifies an existing contact entity in the storage.
	Update(ctx context.Context, contact *entity.Contact) error

	// Delete removes a contact by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
