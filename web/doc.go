// Package web serves the public HTTP endpoints reached from links
// embedded in emails: double-opt-in confirmation, unsubscribe, and
// one-click resubscribe. The endpoints authenticate through the signed
// token carried in the URL rather than a session, since recipients click
// them from their inbox without being logged in.
package web
