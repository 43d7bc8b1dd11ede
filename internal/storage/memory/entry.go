package memory

import "time"

// Entry is a stored value with its expiry metadata.
//
// Entries are immutable once stored; Set always installs a fresh Entry.
type Entry struct {
	Value     string
	CreatedAt time.Time
	// ExpireAt is the zero time when the entry never expires.
	ExpireAt time.Time
}

// HasExpiry reports whether the entry carries an expiry time.
func (e *Entry) HasExpiry() bool {
	return !e.ExpireAt.IsZero()
}

// ExpiredAt reports whether the entry is expired at now.
// An entry whose ExpireAt equals now is already expired.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return e.HasExpiry() && !e.ExpireAt.After(now)
}

// SetOptions controls how Set stores a value.
type SetOptions struct {
	// TTL is the lifetime of the entry. Zero or negative means no expiry.
	TTL time.Duration
}
