package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, sqlite, memory) inside this directory.
// Lookups that match nothing return sql.ErrNoRows, whatever the backend.

import "context"

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
