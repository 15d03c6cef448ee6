package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateRoomName validates a room name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks
// when the name ends up in filenames or rendered output.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 64 characters
func ValidateRoomName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "room name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "room name too long (max 64 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "room name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Path separator
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "room name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// layoutIDRegex matches safe layout identifiers: UUIDs and similar
// hex or alphanumeric tokens with dashes and underscores.
var layoutIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateLayoutID validates a stored layout identifier before it is
// used in a store lookup or a filename.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "layout id too long (max 128 characters)")
	}

	if !layoutIDRegex.MatchString(id) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "invalid layout id: %q", id)
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
