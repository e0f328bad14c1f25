package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emaillist/email"
)

func TestSendParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  email.SendParams
		wantErr bool
	}{
		{
			name: "valid text only",
			params: email.SendParams{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyText: "hello",
			},
		},
		{
			name: "valid html only",
			params: email.SendParams{
				SendTo:   "user@example.com",
				Subject:  "Test Subject",
				BodyHTML: "<p>hello</p>",
			},
		},
		{
			name: "empty SendTo",
			params: email.SendParams{
				Subject:  "Test Subject",
				BodyText: "hello",
			},
			wantErr: true,
		},
		{
			name: "invalid email format",
			params: email.SendParams{
				SendTo:   "not-an-email",
				Subject:  "Test Subject",
				BodyText: "hello",
			},
			wantErr: true,
		},
		{
			name: "missing domain",
			params: email.SendParams{
				SendTo:   "user@",
				Subject:  "Test Subject",
				BodyText: "hello",
			},
			wantErr: true,
		},
		{
			name: "empty subject",
			params: email.SendParams{
				SendTo:   "user@example.com",
				BodyText: "hello",
			},
			wantErr: true,
		},
		{
			name: "no body",
			params: email.SendParams{
				SendTo:  "user@example.com",
				Subject: "Test Subject",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  email.Config
	}{
		{"missing server token", email.Config{PostmarkAccountToken: "a", SenderEmail: "n@e.com"}},
		{"missing account token", email.Config{PostmarkServerToken: "s", SenderEmail: "n@e.com"}},
		{"missing sender", email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a"}},
		{"invalid sender", email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a", SenderEmail: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := email.NewPostmarkClient(tt.cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestDevSender_Send(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.Send(context.Background(), email.SendParams{
		SendTo:   "user@example.com",
		Subject:  "Confirm your subscription",
		BodyText: "click here",
		BodyHTML: "<p>click here</p>",
		Tag:      "subscription-confirmation",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)

	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "user@example.com", saved["send_to"])
	assert.Equal(t, "Confirm your subscription", saved["subject"])
	assert.Equal(t, "click here", saved["body_text"])
}

func TestDevSender_Send_InvalidParams(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(t.TempDir())
	err := sender.Send(context.Background(), email.SendParams{})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}
