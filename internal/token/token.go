// Package token issues and verifies signed timestamps embedded in the
// submission form. A token proves the form was rendered by this server within
// MaxAge, without any server-side session state.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"time"
)

const (
	// Layout is the ISO-8601 UTC layout with millisecond precision.
	Layout = "2006-01-02T15:04:05.000Z"
	// MaxAge is how long an issued token stays valid.
	MaxAge = 5 * time.Minute
)

var (
	ErrNoSecret     = errors.New("token secret is required")
	ErrMalformed    = errors.New("malformed timestamp")
	ErrExpired      = errors.New("timestamp outside validity window")
	ErrBadSignature = errors.New("signature mismatch")
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

// Token is a timestamp and its keyed hash.
type Token struct {
	Timestamp string
	Signature string
}

// Signer issues and checks tokens with a process-wide secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock overrides the clock used to issue and check tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// NewSigner creates a signer. An empty secret is an error.
func NewSigner(secret string, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	s := &Signer{
		secret: []byte(secret),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue returns a token for the current time.
func (s *Signer) Issue() Token {
	ts := s.now().UTC().Format(Layout)

	return Token{
		Timestamp: ts,
		Signature: s.Sign(ts),
	}
}

// Sign returns the hex-encoded HMAC-SHA-256 of timestamp.
func (s *Signer) Sign(timestamp string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(timestamp))

	return hex.EncodeToString(mac.Sum(nil))
}

// Check validates format, then age, then signature, stopping at the first failure.
func (s *Signer) Check(timestamp, signature string) error {
	if !timestampPattern.MatchString(timestamp) {
		return ErrMalformed
	}

	issuedAt, err := time.Parse(Layout, timestamp)
	if err != nil {
		return ErrMalformed
	}

	age := s.now().Sub(issuedAt)
	if age < 0 || age > MaxAge {
		return ErrExpired
	}

	if !hmac.Equal([]byte(s.Sign(timestamp)), []byte(signature)) {
		return ErrBadSignature
	}

	return nil
}

// Verify reports whether the token is well-formed, fresh and correctly signed.
func (s *Signer) Verify(timestamp, signature string) bool {
	return s.Check(timestamp, signature) == nil
}
