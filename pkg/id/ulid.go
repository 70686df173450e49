// Package id generates the sortable identifiers that tag a bulk send run.
//
// Every run gets a ULID so that log lines written to stdout, the log file and
// Sentry can be correlated, and so the archived log object has a unique,
// time-ordered key.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U to avoid confusion).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID (Universally Unique Lexicographically Sortable Identifier).
// Returns a 26-character string: 10 chars timestamp (48-bit ms) + 16 chars random (80-bit).
func NewULID() string {
	return newULIDAt(time.Now())
}

func newULIDAt(now time.Time) string {
	ms := uint64(now.UnixMilli())

	entropy := make([]byte, 10)
	if _, err := rand.Read(entropy); err != nil {
		// Degraded but functional: time-based entropy.
		binary.BigEndian.PutUint64(entropy[:8], uint64(now.UnixNano()))
	}

	var out [26]byte

	// 48-bit timestamp, most significant 5-bit group first.
	for i := range 10 {
		shift := uint(45 - 5*i)
		out[i] = crockfordBase32[(ms>>shift)&0x1F]
	}

	// 80 random bits packed into 16 base32 characters.
	hi := binary.BigEndian.Uint16(entropy[:2])
	lo := binary.BigEndian.Uint64(entropy[2:])
	for i := range 16 {
		bit := 75 - 5*i // bit offset of the group within the 80-bit value
		var v uint64
		switch {
		case bit >= 64:
			v = uint64(hi) >> uint(bit-64)
		case bit+5 > 64:
			v = uint64(hi)<<uint(64-bit) | lo>>uint(bit)
		default:
			v = lo >> uint(bit)
		}
		out[10+i] = crockfordBase32[v&0x1F]
	}

	return string(out[:])
}
