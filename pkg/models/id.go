package models

import "github.com/google/uuid"

// NewID returns a time-ordered unique identifier in canonical UUID form.
// UUIDv7 keeps lexicographic order aligned with creation order, which the
// stores rely on for stable tie-breaking.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Entropy failure: fall back to a random v4.
		return uuid.New().String()
	}
	return id.String()
}
