package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds element ids accepted from scene files and HTTP bodies.
const maxIDLength = 256

// ValidateElementID checks an element id read from untrusted input.
//
// Ids end up in SVG attributes and DOT labels, so the rules are strict:
//   - not empty, at most 256 bytes
//   - no control characters
//   - no quotes or angle brackets
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "element id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "element id %q contains control characters", id)
		}
	}
	if i := strings.IndexAny(id, `"'<>&`); i >= 0 {
		return New(ErrCodeInvalidInput, "element id %q contains invalid character %q", id, id[i])
	}
	return nil
}

// ValidatePath checks an output path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
