package errors

import (
	"strings"
	"unicode"
)

// maxIdentifierLength bounds sample IDs and locus names.
const maxIdentifierLength = 256

// ValidateSampleID validates a sample identifier taken from an assay header
// or a pairs list.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters (tabs included, since they delimit columns)
//   - No whitespace, since pair lists are whitespace separated
//   - Maximum length of 256 characters
func ValidateSampleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "sample ID cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "sample ID too long (max %d characters)", maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sample ID %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "sample ID %q contains whitespace", id)
		}
	}

	return nil
}

// ValidateLocusName validates a probe set / locus name from an assay row.
func ValidateLocusName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "locus name cannot be empty")
	}

	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "locus name too long (max %d characters)", maxIdentifierLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "locus name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "path contains null bytes")
	}

	return nil
}
