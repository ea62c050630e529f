// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a delivery address plus phone number owned by exactly one user.
// Orders reference a contact, they never copy it.
type Contact struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the contact.
	UserID    uuid.UUID // The ID of the user who owns this contact.
	City      string    // City of the delivery address.
	Street    string    // Street of the delivery address.
	House     string    // House number.
	Structure string    // Structure part of the address, optional.
	Building  string    // Building part of the address, optional.
	Apartment string    // Apartment number, optional.
	Phone     string    // Contact phone number.
	CreatedAt time.Time // Timestamp of when this contact was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}
