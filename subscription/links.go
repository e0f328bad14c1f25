package subscription

import (
	"net/url"
	"strings"
)

// UnsubscribeURL builds an absolute, signed opt-out link for the identity
// and list. The link authorizes the holder to unsubscribe (or, via POST,
// resubscribe) the email without logging in.
func (s *Service) UnsubscribeURL(identity Identity, listName string) string {
	addr := identity.Email()
	return s.link("unsubscribe", addr, s.signer.Issue(addr), listName)
}

// ConfirmURL builds an absolute, signed double-opt-in confirmation link
// for the email and list.
func (s *Service) ConfirmURL(addr, listName string) string {
	return s.link("confirm", addr, s.signer.Issue(addr), listName)
}

func (s *Service) link(action, addr, tok, listName string) string {
	return strings.TrimSuffix(s.cfg.SiteURL, "/") +
		"/" + action +
		"/" + url.PathEscape(addr) +
		"/" + url.PathEscape(tok) +
		"/" + url.PathEscape(listName) + "/"
}
