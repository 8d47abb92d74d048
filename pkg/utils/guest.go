package utils

import (
	"regexp"
	"strings"
)

const (
	PhoneNumberLength = 10
	MinRating         = 1
	MaxRating         = 5
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// KnownTags are the labels a guest can pick on the feedback form, in display order.
var KnownTags = []string{
	"great-food",
	"awesome-service",
	"cool-vibe",
	"good-value",
}

// ValidateName validates a guest name.
// Rules: non-empty after trimming, letters and spaces only
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}

	if !nameRegex.MatchString(name) {
		return &ValidationError{Field: "name", Message: "Name can only contain letters and spaces."}
	}

	return nil
}

// ValidatePhone validates a guest phone number.
// Rules: exactly 10 digits after trimming, first digit 6-9
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return &ValidationError{Field: "phoneNumber", Message: "Phone number is required"}
	}

	if !phoneRegex.MatchString(phone) {
		return &ValidationError{Field: "phoneNumber", Message: "Phone number must start with 6-9 and be exactly 10 digits."}
	}

	return nil
}

// ValidateRating accepts an absent rating (nil or 0) or a star count between 1 and 5.
func ValidateRating(rating *int) error {
	if rating == nil || *rating == 0 {
		return nil
	}
	if *rating < MinRating || *rating > MaxRating {
		return &ValidationError{Field: "rating", Message: "Rating must be between 1 and 5."}
	}
	return nil
}

// NormalizeTags trims and de-duplicates the selected tags, keeping selection
// order, and joins them into the comma-delimited stored form.
// An empty selection yields "".
func NormalizeTags(tags []string) (string, error) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if !IsKnownTag(tag) {
			return "", &ValidationError{Field: "tags", Message: "Unknown tag: " + tag}
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return strings.Join(out, ","), nil
}

// IsKnownTag reports whether tag is one of KnownTags
func IsKnownTag(tag string) bool {
	for _, known := range KnownTags {
		if known == tag {
			return true
		}
	}
	return false
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
