package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no short link exists for a code.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeTaken is returned by Create when the code is already in use.
	ErrCodeTaken = errors.New("short code already taken")
	// ErrAllocationExhausted is returned when no free code was found within MaxAttempts.
	ErrAllocationExhausted = errors.New("could not allocate a free short code")
)

// Repository persists short links. Implementations must enforce code
// uniqueness themselves and report a duplicate with ErrCodeTaken.
type Repository interface {
	Create(ctx context.Context, link *ShortLink) error
	GetByCode(ctx context.Context, code Code) (*ShortLink, error)
}
