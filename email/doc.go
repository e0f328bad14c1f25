// Package email provides a provider-agnostic capability for sending
// transactional emails with built-in support for Postmark.
//
// The package is built around the Sender interface so providers can be
// swapped without changing application code:
//   - PostmarkClient for production delivery
//   - DevSender for local development (saves emails to disk)
//
// All implementations validate parameters before sending. Send failures
// surface as errors wrapped with ErrFailedToSend; they are never silent.
//
//	sender, err := email.NewPostmarkClient(email.Config{
//	    PostmarkServerToken:  "server-token",
//	    PostmarkAccountToken: "account-token",
//	    SenderEmail:          "noreply@example.com",
//	})
//	if err != nil {
//	    // handle configuration error
//	}
//
//	err = sender.Send(ctx, email.SendParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "Confirm your subscription",
//	    BodyText: "Please click the link below.",
//	    BodyHTML: "<p>Please click the link below.</p>",
//	    Tag:      "subscription-confirmation",
//	})
package email
