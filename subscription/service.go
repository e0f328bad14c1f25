package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/emaillist/email"
	"github.com/dmitrymomot/emaillist/token"
)

// Config holds the service-level settings.
type Config struct {
	// SiteURL is the base URL used to build absolute confirmation and
	// unsubscribe links, e.g. "https://example.com".
	SiteURL string `env:"SITE_URL,required"`
}

// Service implements the mailing-list business logic over a Store, a
// token signer, and an email sending capability. It is stateless apart
// from the shared store and safe for concurrent use.
type Service struct {
	cfg    Config
	store  Store
	signer *token.Signer
	mailer email.Sender
	log    *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithLogger supplies a structured logger. Without it the service stays silent.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Service. Store, signer, and mailer are required.
func New(cfg Config, store Store, signer *token.Signer, mailer email.Sender, opts ...Option) (*Service, error) {
	if cfg.SiteURL == "" {
		return nil, fmt.Errorf("%w: SiteURL is required", ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if signer == nil {
		return nil, fmt.Errorf("%w: token signer is required", ErrInvalidConfig)
	}
	if mailer == nil {
		return nil, fmt.Errorf("%w: mailer is required", ErrInvalidConfig)
	}

	s := &Service{
		cfg:    cfg,
		store:  store,
		signer: signer,
		mailer: mailer,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubscribeOption configures a single Subscribe call.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	sendConfirmation bool
}

// WithoutConfirmationEmail suppresses the confirmation email for guest
// subscriptions, e.g. for bulk imports of already-confirmed addresses.
func WithoutConfirmationEmail() SubscribeOption {
	return func(o *subscribeOptions) {
		o.sendConfirmation = false
	}
}

// Subscribe opts the identity in to the named list.
//
// When the existing record is already subscribed and confirmed, it is
// returned unchanged: no write, no email. Account identities are always
// confirmed; a guest keeps any previously earned confirmation, otherwise
// starts unconfirmed. A confirmation email goes out only when a brand-new
// guest record was created and sending was not suppressed; a send failure
// propagates to the caller.
func (s *Service) Subscribe(ctx context.Context, identity Identity, listName string, opts ...SubscribeOption) (*Subscription, error) {
	options := subscribeOptions{sendConfirmation: true}
	for _, opt := range opts {
		opt(&options)
	}

	addr := identity.Email()

	existing, err := s.store.Find(ctx, addr, listName)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Active() {
		return existing, nil
	}

	acct, isAccount := identity.Account()
	confirmed := isAccount
	if !isAccount && existing != nil {
		confirmed = existing.Confirmed
	}

	params := OptInParams{
		Email:     addr,
		ListName:  listName,
		Confirmed: confirmed,
	}
	if isAccount {
		id := acct.ID
		params.AccountID = &id
	}

	sub, created, err := s.store.OptIn(ctx, params)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "subscribed",
		slog.String("email", addr),
		slog.String("list", listName),
		slog.Bool("created", created),
	)

	if created && !isAccount && options.sendConfirmation {
		if err := s.sendConfirmationEmail(ctx, addr, listName); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

// Unsubscribe opts the identity out of the named list. Unlike Subscribe
// there is no short-circuit: the upsert always runs, creating an
// opted-out record when none exists.
func (s *Service) Unsubscribe(ctx context.Context, identity Identity, listName string) (*Subscription, error) {
	addr := identity.Email()

	sub, err := s.store.OptOut(ctx, addr, listName)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "unsubscribed",
		slog.String("email", addr),
		slog.String("list", listName),
	)
	return sub, nil
}

// IsSubscribed reports whether a record exists with Subscribed=true.
// Confirmation is intentionally not required here, even though the member
// listings do require it; this asymmetry matches the observed behavior of
// the system this module models.
func (s *Service) IsSubscribed(ctx context.Context, identity Identity, listName string) (bool, error) {
	sub, err := s.store.Find(ctx, identity.Email(), listName)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sub.Subscribed, nil
}

// IsUnsubscribed is the logical negation of IsSubscribed.
func (s *Service) IsUnsubscribed(ctx context.Context, identity Identity, listName string) (bool, error) {
	subscribed, err := s.IsSubscribed(ctx, identity, listName)
	return !subscribed, err
}

// Confirm marks the (email, list) record as confirmed. A no-op when no
// record matches; absence is not an error.
func (s *Service) Confirm(ctx context.Context, addr, listName string) error {
	if err := s.store.Confirm(ctx, addr, listName); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "subscription confirmed",
		slog.String("email", addr),
		slog.String("list", listName),
	)
	return nil
}

// Members returns the emails subscribed and confirmed on the list,
// accounts and guests alike.
func (s *Service) Members(ctx context.Context, listName string) ([]string, error) {
	return s.store.Members(ctx, listName)
}

// AccountMembers returns the distinct accounts subscribed and confirmed
// on the list.
func (s *Service) AccountMembers(ctx context.Context, listName string) ([]Account, error) {
	return s.store.AccountMembers(ctx, listName)
}

// GuestMembers returns the subscribed and confirmed emails on the list
// that are not linked to any account.
func (s *Service) GuestMembers(ctx context.Context, listName string) ([]string, error) {
	return s.store.GuestMembers(ctx, listName)
}

// Lists returns every list name that appears across subscriptions,
// regardless of status.
func (s *Service) Lists(ctx context.Context) ([]string, error) {
	return s.store.Lists(ctx)
}

func (s *Service) sendConfirmationEmail(ctx context.Context, addr, listName string) error {
	confirmURL := s.ConfirmURL(addr, listName)

	const subject = "Confirm your subscription"
	const body = "Please click on the following link to confirm your subscription: "

	err := s.mailer.Send(ctx, email.SendParams{
		SendTo:   addr,
		Subject:  subject,
		BodyText: body + confirmURL,
		BodyHTML: fmt.Sprintf(
			`<html><body><p>%s</p><p><a href=%q>%s</a></p></body></html>`,
			body, confirmURL, subject,
		),
		Tag: "subscription-confirmation",
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "confirmation email sent",
		slog.String("email", addr),
		slog.String("list", listName),
	)
	return nil
}
