package shortener

import "time"

// Code represents a short link code.
type Code string

// ShortLink maps a short code to the original URL. It is never mutated once created.
type ShortLink struct {
	Code      Code
	URL       string
	CreatedAt time.Time
}
