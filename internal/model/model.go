package model

// Package model contains domain models/data structures.
// Keep it free of persistence and transport concerns; no business logic here.

// Length bounds for quote fields, counted in characters after trimming.
const (
	MaxTextLength   = 500
	MaxAuthorLength = 100
)
