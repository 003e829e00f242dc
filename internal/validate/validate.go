// Package validate provides input validation helpers for the HealthKey CLI.
package validate

import (
	"regexp"
	"unicode/utf8"

	"github.com/Elmersong/HealthKey/internal/errors"
)

const (
	// MaxLabelLength is the maximum length for a category or event-type label.
	MaxLabelLength = 64
	// MaxNoteLength is the maximum length for a note.
	MaxNoteLength = 4096
	// MaxWaterMl is a sanity cap on a single water entry.
	MaxWaterMl = 10000
)

// colorTokenRegex validates #rgb / #rrggbb display tokens.
var colorTokenRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Label validates a category or event-type label.
func Label(label string) error {
	if label == "" {
		return errors.NewUserError("Label cannot be empty", "Provide a label")
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return errors.NewUserErrorWithField("label", label,
			"Label too long",
			"Labels must be 64 characters or fewer")
	}
	return nil
}

// ColorToken validates a display color token.
func ColorToken(token string) error {
	if !colorTokenRegex.MatchString(token) {
		return errors.NewUserErrorWithField("color", token,
			"Invalid color format",
			"Use a hex token like #ff9f43")
	}
	return nil
}

// Percent validates a 0-100 percentage field.
func Percent(field string, value int) error {
	if value < 0 || value > 100 {
		return errors.NewUserErrorWithField(field, "",
			"Percentage out of range",
			"Use a value between 0 and 100")
	}
	return nil
}

// WaterMl validates a water volume in milliliters.
func WaterMl(ml int) error {
	if ml < 0 || ml > MaxWaterMl {
		return errors.NewUserErrorWithField("water", "",
			"Water volume out of range",
			"Use a value between 0 and 10000 ml")
	}
	return nil
}

// Note validates a free-text note.
func Note(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return errors.NewUserError("Note too long",
			"Notes must be 4096 characters or fewer")
	}
	return nil
}
