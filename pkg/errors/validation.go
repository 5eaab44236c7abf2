package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTemplateNameLength = 120
	maxPromptLength       = 4000
)

// ValidateTemplateName checks a template name before it is saved.
// Templates are looked up by name within a company, so the rules reject
// names that are empty after trimming, overly long, or that carry control
// characters.
func ValidateTemplateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return New(ErrCodeInvalidName, "template name cannot be empty")
	}

	if utf8.RuneCountInString(trimmed) > maxTemplateNameLength {
		return New(ErrCodeInvalidName, "template name too long (max %d characters)", maxTemplateNameLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "template name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePrompt checks a layout generation prompt before it is sent to the
// generator. Empty prompts are rejected without calling out.
func ValidatePrompt(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return New(ErrCodeEmptyPrompt, "prompt cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxPromptLength {
		return New(ErrCodeInvalidInput, "prompt too long (max %d characters)", maxPromptLength)
	}
	return nil
}

// templateIDRegex matches identifiers safe to use as file names and store keys.
var templateIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// ValidateTemplateID validates a template identifier used as a storage key.
// It rejects path traversal and separator characters since the file store
// maps identifiers directly to file names.
func ValidateTemplateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "template id cannot be empty")
	}
	if !templateIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid template id: %q", id)
	}
	return nil
}
