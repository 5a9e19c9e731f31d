package validation

import (
	"chat-presence/errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate  = validator.New()
	sanitizer = bluemonday.StrictPolicy()
)

type JoinRequest struct {
	Name string `validate:"required,min=2"`
}

// MessageRequest is the schema shared by message ingestion and edition.
type MessageRequest struct {
	From string `validate:"required"`
	To   string `validate:"required,min=1"`
	Text string `validate:"required,min=1"`
	Type string `validate:"required,oneof=message private_message"`
}

// SanitizeName strips any markup from a display name and trims it.
// bluemonday escapes what it keeps, so entities are decoded back to plain text.
func SanitizeName(raw string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(raw)))
}

// ValidateJoin returns the sanitized name when it satisfies the participant schema.
func ValidateJoin(rawName string) (string, error) {
	req := JoinRequest{Name: SanitizeName(rawName)}
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrValidationFailed, err)
	}
	return req.Name, nil
}

// ValidateMessage checks the message schema. Recipient and text are stored as sent:
// only display names go through the markup sanitizer.
func ValidateMessage(req MessageRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidationFailed, err)
	}
	return nil
}

// ParseLimit reads an optional trailing window.
// A nil raw value means unrestricted. A present value, blank included,
// must be a positive integer.
func ParseLimit(raw *string) (*int, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	limit, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: limit %q is not a number", errors.ErrInvalidArgument, *raw)
	}
	if err = ValidateLimit(&limit); err != nil {
		return nil, err
	}
	return &limit, nil
}

func ValidateLimit(limit *int) error {
	if limit == nil {
		return nil
	}
	if err := validate.Var(*limit, "gt=0"); err != nil {
		return fmt.Errorf("%w: limit must be positive, got %d", errors.ErrInvalidArgument, *limit)
	}
	return nil
}
