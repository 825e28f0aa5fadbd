package models

import "time"

// LinkCode is an ephemeral challenge code. It lives only in memory and is
// destroyed on first consumption or on expiry.
type LinkCode struct {
	Code      string
	OwnerID   int64
	ExpiresAt time.Time
}

func (c *LinkCode) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}
