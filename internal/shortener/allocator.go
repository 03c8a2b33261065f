package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the set of characters short codes are drawn from.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// DefaultCodeLength is the length of generated codes.
	DefaultCodeLength = 6
	// MinCodeLength is the shortest code the nanoid generator can produce.
	MinCodeLength = 5
	// MaxAttempts bounds the number of codes tried for a single Create.
	MaxAttempts = 5
)

// reserved holds codes that would shadow a fixed route.
var reserved = map[Code]bool{
	"health":  true,
	"stats":   true,
	"docs":    true,
	"schemas": true,
}

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// ErrCodeLength is returned for lengths the generator cannot draw.
var ErrCodeLength = errors.New("code length too short")

// NewCodeGenerator returns a nanoid generator over Alphabet. Lengths below
// MinCodeLength are rejected: nanoid never returns for them.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < MinCodeLength {
		return nil, fmt.Errorf("%w: %d, minimum is %d", ErrCodeLength, length, MinCodeLength)
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return gen, nil
}

// Allocator mints unique codes and persists new short links.
type Allocator struct {
	store        Repository
	generateCode CodeGenerator
	now          func() time.Time
}

// NewAllocator creates a new allocator backed by store.
func NewAllocator(store Repository, generator CodeGenerator) *Allocator {
	return &Allocator{
		store:        store,
		generateCode: generator,
		now:          time.Now,
	}
}

// AllocateCode draws a fresh candidate code.
func (a *Allocator) AllocateCode() Code {
	for {
		code := Code(a.generateCode())
		if !reserved[code] {
			return code
		}
	}
}

// Create stores url under a newly allocated code. A code collision reported by
// the store is retried with a fresh code, up to MaxAttempts in total.
func (a *Allocator) Create(ctx context.Context, url string) (*ShortLink, error) {
	var lastErr error

	for range MaxAttempts {
		link := &ShortLink{
			Code:      a.AllocateCode(),
			URL:       url,
			CreatedAt: a.now().UTC(),
		}

		err := a.store.Create(ctx, link)
		if err == nil {
			return link, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, fmt.Errorf("create short link: %w", err)
		}

		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrAllocationExhausted, MaxAttempts, lastErr)
}

// FindByCode returns the short link stored under code.
func (a *Allocator) FindByCode(ctx context.Context, code Code) (*ShortLink, error) {
	return a.store.GetByCode(ctx, code)
}
