// Package store persists rule expressions by name.
//
// Rules are plain expression strings; parsing happens when a rule is loaded
// into an engine, never at save time.
package store

import (
	"errors"
	"time"
)

// Store persists rule expressions keyed by rule name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores the expression for a rule, overwriting any previous one.
	// Every overwrite bumps the rule's version.
	Save(name, expr string) error

	// Load retrieves a rule's expression.
	// Returns ErrNotFound if the rule doesn't exist.
	Load(name string) (string, error)

	// List returns metadata for every rule, ordered by name.
	// Returns an empty slice (not error) when the store is empty.
	List() ([]Info, error)

	// Delete removes a rule. Returns nil if the rule doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a stored rule without its expression.
type Info struct {
	Name      string
	Version   int
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a rule doesn't exist.
	ErrNotFound = errors.New("rule not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("rule store closed")

	// ErrEmptyName indicates Save was called without a rule name.
	ErrEmptyName = errors.New("rule name is required")
)
