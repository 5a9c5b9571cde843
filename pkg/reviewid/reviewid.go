// Package reviewid provides stable review identifier generation and
// validation.
//
// ID Format: <source>:<sha1_hex:16>
//
// The digest covers "source|author|date|text" with the text normalized
// (URLs and emails stripped, whitespace collapsed), so the same review
// re-exported from a platform maps to the same ID across ingest runs.
// IDs are deterministic on purpose: re-running a backfill over the same
// export must not create duplicates.
package reviewid

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DigestLen is the number of hex characters kept from the SHA-1 digest.
const DigestLen = 16

// Errors
var (
	ErrInvalidFormat = errors.New("invalid review ID format")
	ErrEmptySource   = errors.New("empty review source")
)

// ReviewID represents a parsed review identifier.
type ReviewID struct {
	Source string // canonical source key (yandex, booking, ...)
	Digest string // 16 hex chars of SHA-1
	Raw    string // original ID string
}

// String returns the string representation of the ReviewID.
func (r ReviewID) String() string {
	return r.Raw
}

// New derives the identifier for a review. The text argument must already
// be normalized by the caller so that formatting noise in an export does
// not change identity.
func New(source, author, date, normalizedText string) (string, error) {
	source = strings.TrimSpace(strings.ToLower(source))
	if source == "" {
		return "", ErrEmptySource
	}
	sum := sha1.Sum([]byte(source + "|" + author + "|" + date + "|" + normalizedText))
	return source + ":" + hex.EncodeToString(sum[:])[:DigestLen], nil
}

// Parse validates and parses a review ID string.
func Parse(id string) (ReviewID, error) {
	source, digest, ok := strings.Cut(id, ":")
	if !ok {
		return ReviewID{}, fmt.Errorf("%w: missing colon separator", ErrInvalidFormat)
	}
	if source == "" {
		return ReviewID{}, fmt.Errorf("%w: empty source", ErrInvalidFormat)
	}
	if len(digest) != DigestLen {
		return ReviewID{}, fmt.Errorf("%w: expected %d digest characters, got %d", ErrInvalidFormat, DigestLen, len(digest))
	}
	if !isHex(digest) {
		return ReviewID{}, fmt.Errorf("%w: digest contains non-hex characters", ErrInvalidFormat)
	}
	return ReviewID{Source: source, Digest: digest, Raw: id}, nil
}

// IsValid checks if a string is a valid review ID.
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// SourceFromID extracts the source from an ID string.
// Returns empty string if the ID is invalid.
func SourceFromID(id string) string {
	parsed, err := Parse(id)
	if err != nil {
		return ""
	}
	return parsed.Source
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
