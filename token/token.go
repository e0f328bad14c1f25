package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAge is how long an issued token stays valid.
const DefaultMaxAge = 7 * 24 * time.Hour

// signatureSize is the number of HMAC-SHA256 bytes kept in the token.
// 8 bytes keeps links short while providing enough strength for
// short-lived unsubscribe and confirmation tokens.
const signatureSize = 8

// Signer issues and verifies signed email tokens.
//
// A token binds an email address to its issuance time:
//
//	<email>:base64url(timestamp).base64url(signature)
//
// The email is recoverable by splitting on the first ':'. The signature
// covers the email and the timestamp, nothing else.
type Signer struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithMaxAge overrides the default 7-day validity window.
func WithMaxAge(d time.Duration) Option {
	return func(s *Signer) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithClock replaces the time source, used by tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Signer with the given secret key. The secret is injected
// explicitly rather than read from process-wide state so multiple signers
// with independent keys can coexist.
func New(secret string, opts ...Option) *Signer {
	s := &Signer{
		secret: []byte(secret),
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue produces a signed token for the given email address.
func (s *Signer) Issue(email string) string {
	ts := encodeTimestamp(s.now().Unix())
	sig := base64.RawURLEncoding.EncodeToString(s.sign(email, ts))
	return email + ":" + ts + "." + sig
}

// Verify reports whether the token carries a valid signature and was
// issued within the validity window. It returns false on malformed input,
// a signature mismatch, or expiry; it never returns an error.
func (s *Signer) Verify(token string) bool {
	email, blob, ok := strings.Cut(token, ":")
	if !ok || email == "" {
		return false
	}
	ts, sigEnc, ok := strings.Cut(blob, ".")
	if !ok {
		return false
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigEnc)
	if err != nil {
		return false
	}
	if subtle.ConstantTimeCompare(sig, s.sign(email, ts)) != 1 {
		return false
	}

	issuedAt, ok := decodeTimestamp(ts)
	if !ok {
		return false
	}
	return s.now().Sub(time.Unix(issuedAt, 0)) <= s.maxAge
}

// Email extracts the address a token was issued for without verifying it.
// Returns an empty string for tokens that do not contain a ':' separator.
func Email(token string) string {
	email, _, ok := strings.Cut(token, ":")
	if !ok {
		return ""
	}
	return email
}

func (s *Signer) sign(email, ts string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(email))
	h.Write([]byte{':'})
	h.Write([]byte(ts))
	return h.Sum(nil)[:signatureSize]
}

func encodeTimestamp(unix int64) string {
	return base64.RawURLEncoding.EncodeToString(strconv.AppendInt(nil, unix, 10))
}

func decodeTimestamp(enc string) (int64, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return 0, false
	}
	unix, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return unix, true
}
