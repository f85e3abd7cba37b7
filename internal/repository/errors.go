package repository

import "errors"

var (
	// ErrOverlap means the candidate interval collides with a blocking
	// booking; the enclosing transaction has been rolled back.
	ErrOverlap = errors.New("booking interval overlaps an existing booking")

	// ErrDuplicateCode means the generated booking code is already taken.
	ErrDuplicateCode = errors.New("booking code already exists")
)
