// Package store keeps chat sessions in memory for their lifetime.
package store

import (
	"github.com/ashureev/faqbot/internal/domain"
)

// Repository defines access to live chat sessions.
type Repository interface {
	// Update runs fn on the session with the given ID, creating it with
	// create if missing. Calls for the same ID are serialized.
	Update(id string, create func() *domain.Session, fn func(*domain.Session) error) error

	// Get retrieves a session by ID.
	Get(id string) (*domain.Session, bool)

	// Delete ends a session.
	Delete(id string)

	// Count returns the number of live sessions.
	Count() int
}
