package errors

import (
	"strings"
	"testing"
)

func TestValidateTemplateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Fridge Checks", false},
		{"valid unicode", "Kühlschrank °C", false},
		{"surrounding spaces", "  Opening  ", false},

		{"empty", "", true},
		{"only spaces", "   ", true},
		{"too long", strings.Repeat("a", 121), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateTemplateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  Code
	}{
		{"valid", "a fridge temperature log", ""},
		{"empty", "", ErrCodeEmptyPrompt},
		{"whitespace", " \t\n", ErrCodeEmptyPrompt},
		{"too long", strings.Repeat("x", 4001), ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.input)
			if got := GetCode(err); got != tt.code {
				t.Errorf("ValidatePrompt(%q) code = %v, want %v", tt.input, got, tt.code)
			}
		})
	}
}

func TestValidateTemplateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0b6f3c1e-9c7a-4d1b-8f2e-3a5b7c9d1e2f", false},
		{"slug", "fridge_checks", false},

		{"empty", "", true},
		{"path traversal", "../etc", true},
		{"separator", "a/b", true},
		{"leading dash", "-abc", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
