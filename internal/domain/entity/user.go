// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique account.
// The Type discriminator decides whether the account acts as a supplier
// shop or as a buying customer.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Email     string    // The user's primary contact email, used for notifications.
	Username  string    // The unique login identifier.
	FullName  string    // The user's display name or real name.
	Type      Role      // Account type: shop (supplier) or customer (buyer).
	Company   string    // The company the user represents, free text.
	Position  string    // The user's position within the company, free text.
	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
