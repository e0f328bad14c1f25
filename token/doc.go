// Package token provides signed, time-limited email tokens for
// unsubscribe and confirmation links.
//
// Tokens are capabilities: anyone holding a valid, unexpired token for an
// address may act on that address without authenticating. Only the email
// and the issuance timestamp are signed; the mailing list named alongside
// the token in a URL is not part of the payload.
//
// Tokens use HMAC-SHA256 with a truncated 8-byte signature, keeping links
// compact. Not suitable for high-value or long-lived credentials.
//
// # Usage
//
//	signer := token.New("my-very-strong-secret")
//
//	tok := signer.Issue("user@example.com")
//	if !signer.Verify(tok) {
//	    // expired, tampered with, or malformed
//	}
package token
