package validation

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/benvon/focusplan/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("mood", validateMood); err != nil {
		panic(fmt.Sprintf("failed to register mood validator: %v", err))
	}
}

// validateMood validates that a string is a valid Mood enum value
func validateMood(fl validator.FieldLevel) bool {
	return models.Mood(fl.Field().String()).Valid()
}

// ValidateTaskText rejects task text carrying control characters other than
// newline and tab, or running past maxLength characters
func ValidateTaskText(text string, maxLength int) error {
	if utf8.RuneCountInString(text) > maxLength {
		return fmt.Errorf("text exceeds maximum length of %d characters", maxLength)
	}
	for i, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return fmt.Errorf("text contains a control character at byte %d", i)
		}
	}
	return nil
}

// ValidateMood validates a Mood string value
func ValidateMood(value string) error {
	if !models.Mood(value).Valid() {
		return fmt.Errorf("invalid mood: %s (must be 'Tired', 'Neutral', 'Happy', or 'Stressed')", value)
	}
	return nil
}

// ValidateEnergy rejects energy levels outside [1,10]
func ValidateEnergy(value int) error {
	if !models.Energy(value).Valid() {
		return fmt.Errorf("invalid energy: %d (must be between %d and %d)", value, models.MinEnergy, models.MaxEnergy)
	}
	return nil
}

// FirstError renders the first field error of a validator failure, or err itself.
func FirstError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return fmt.Sprintf("Validation failed: %s", validationErrors[0].Error())
	}
	return err.Error()
}
