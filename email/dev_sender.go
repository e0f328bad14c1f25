package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development.
// It saves emails as text and JSON files to a directory instead of
// sending them through an email provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development email sender that saves emails to disk.
// The directory is created on first send if it doesn't exist.
func NewDevSender(dir string) Sender {
	return &DevSender{dir: dir}
}

// devEmail is the on-disk representation of a captured email.
type devEmail struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	BodyText  string `json:"body_text"`
	BodyHTML  string `json:"body_html,omitempty"`
	Tag       string `json:"tag,omitempty"`
}

// Send writes the email as a JSON file to the configured directory.
func (d *DevSender) Send(ctx context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSend, err)
	}

	now := time.Now()

	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	name := fmt.Sprintf("%s_%s.json", now.Format("2006_01_02_150405"), sanitizeFilename(identifier))

	data, err := json.MarshalIndent(devEmail{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		BodyText:  params.BodyText,
		BodyHTML:  params.BodyHTML,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal email: %v", ErrFailedToSend, err)
	}

	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write email file: %v", ErrFailedToSend, err)
	}
	return nil
}

// sanitizeRegex matches characters that are not safe in filenames.
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
