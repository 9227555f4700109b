package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nameRegex matches registry names: lower-case identifiers with an optional
// "namespace:" prefix, e.g. "oak" or "dynamictrees:swamp_oak".
var nameRegex = regexp.MustCompile(`^([a-z0-9_.-]+:)?[a-z0-9_./-]+$`)

// ValidateName validates a family, species, kit or block name.
//
// Names are keys into configuration registries and appear in scene files, so
// the rules are strict:
//   - No empty names
//   - Maximum length of 128 characters
//   - Lower-case letters, digits, '_', '.', '-', '/' and one namespace ':'
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "%s name cannot be empty", kind)
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidConfig, "%s name too long (max 128 characters)", kind)
	}
	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidConfig, "invalid %s name: %q", kind, name)
	}
	return nil
}

// ValidateRange checks lo <= v <= hi.
func ValidateRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be between %d and %d, got %d", field, lo, hi, v)
	}
	return nil
}

// ValidatePath validates an output path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
