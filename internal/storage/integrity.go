package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
)

// DefaultMaxFileSize is the integrity ceiling for a single data file.
// A users.json beyond this is treated as corrupt, not as a big dataset.
const DefaultMaxFileSize = 50 * 1024 * 1024

// Checker verifies that a data file is present, within the size ceiling,
// readable and well-formed JSON. It is deliberately ignorant of the file's
// semantic content; schema-level validation happens on the decoded records.
type Checker struct {
	maxSize int64
}

// NewChecker returns a Checker with the given size ceiling. Non-positive
// values fall back to DefaultMaxFileSize.
func NewChecker(maxSize int64) *Checker {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Checker{maxSize: maxSize}
}

// Check reports whether path holds a readable, size-bounded, well-formed
// JSON document. Any failure mode returns false; the caller decides whether
// to restore from backup or fall back to defaults.
func (c *Checker) Check(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if info.Size() > c.maxSize {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Valid(data)
}

// MaxSize returns the configured size ceiling.
func (c *Checker) MaxSize() int64 {
	return c.maxSize
}

// HashBytes returns the hex sha256 digest of content. Used for
// content-addressed equality checks, not as a security boundary.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether content matches the given digest.
func Verify(content []byte, digest string) bool {
	return digest != "" && HashBytes(content) == digest
}
