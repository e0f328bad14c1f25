package email

// Config holds email delivery configuration.
// The Postmark tokens are optional to support development environments
// where outbound email is written to disk instead of being sent.
// SenderEmail establishes the From identity for all outbound messages.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
}
