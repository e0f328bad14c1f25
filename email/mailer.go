package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Sender represents a capability for sending a single transactional email.
type Sender interface {
	Send(ctx context.Context, params SendParams) error
}

// SendParams represents the parameters for sending an email.
type SendParams struct {
	SendTo   string `json:"send_to"`             // Email address of the recipient
	Subject  string `json:"subject"`             // Subject of the email
	BodyText string `json:"body_text"`           // Plain text body of the email
	BodyHTML string `json:"body_html,omitempty"` // Optional HTML alternative
	Tag      string `json:"tag,omitempty"`       // Optional, for provider-side analytics
}

// emailRegex performs basic email format validation.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks that the parameters describe a sendable email.
func (p SendParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyText) == "" && strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyText or BodyHTML is required", ErrInvalidParams)
	}
	return nil
}
