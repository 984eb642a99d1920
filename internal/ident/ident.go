// Package ident supplies the unique-identifier capability for todo
// records.
package ident

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random (v4) UUID identifiers.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}
