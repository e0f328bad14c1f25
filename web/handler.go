package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/emaillist/event"
	"github.com/dmitrymomot/emaillist/httpserver"
	"github.com/dmitrymomot/emaillist/logger"
	"github.com/dmitrymomot/emaillist/ratelimit"
	"github.com/dmitrymomot/emaillist/subscription"
	"github.com/dmitrymomot/emaillist/token"
)

// AccountDirectory resolves an email address to a registered account, so
// that a resubscribe through a signed link restores the account linkage.
type AccountDirectory interface {
	// FindByEmail returns the account registered under the address, or
	// ErrAccountNotFound when the address belongs to a guest.
	FindByEmail(ctx context.Context, addr string) (subscription.Account, error)
}

// ErrAccountNotFound is returned by AccountDirectory implementations when
// no account is registered under the address.
var ErrAccountNotFound = errors.New("account not found")

// Handler serves the public subscription endpoints reached from email
// links: unsubscribe, resubscribe, and double-opt-in confirmation.
type Handler struct {
	svc      *subscription.Service
	signer   *token.Signer
	accounts AccountDirectory
	events   *event.Hub
	limiter  ratelimit.Limiter
	checks   []func(context.Context) error
	log      *slog.Logger
}

// Option configures optional Handler collaborators.
type Option func(*Handler)

// WithAccountDirectory enables account resolution on resubscribe.
func WithAccountDirectory(dir AccountDirectory) Option {
	return func(h *Handler) { h.accounts = dir }
}

// WithEvents publishes confirmation and unsubscription events to the hub.
func WithEvents(hub *event.Hub) Option {
	return func(h *Handler) { h.events = hub }
}

// WithRateLimiter throttles the unsubscribe endpoints per client IP.
func WithRateLimiter(limiter ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = limiter }
}

// WithHealthChecks registers readiness checks served on /healthz.
func WithHealthChecks(checks ...func(context.Context) error) Option {
	return func(h *Handler) { h.checks = append(h.checks, checks...) }
}

// WithLogger supplies a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates a Handler. Service and signer are required.
func NewHandler(svc *subscription.Service, signer *token.Signer, opts ...Option) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("web: subscription service is required")
	}
	if signer == nil {
		return nil, errors.New("web: token signer is required")
	}

	h := &Handler{
		svc:    svc,
		signer: signer,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Router builds the HTTP routes. Link paths mirror the format produced
// by the subscription service: /{action}/{email}/{token}/{list}/.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		if h.limiter != nil {
			r.Use(ratelimit.Middleware(h.limiter, ratelimit.ByClientIP()))
		}
		r.Get("/unsubscribe/{email}/{token}/{list}/", h.unsubscribe)
		r.Post("/unsubscribe/{email}/{token}/{list}/", h.resubscribe)
	})

	r.Get("/confirm/{email}/{token}/{list}/", h.confirm)
	r.Get("/healthz", httpserver.HealthCheckHandler(h.log, h.checks...))

	return r
}

// linkParams extracts and validates the signed-link path parameters. The
// token must carry a valid signature, be within its max age, and match
// the email in the path, so a link for one address cannot act on another.
func (h *Handler) linkParams(r *http.Request) (addr, listName string, ok bool) {
	addr = pathParam(r, "email")
	tok := pathParam(r, "token")
	listName = pathParam(r, "list")

	if !h.signer.Verify(tok) || token.Email(tok) != addr {
		return "", "", false
	}
	return addr, listName, true
}

// pathParam returns the decoded URL parameter. chi hands back the raw
// segment when the request path carries percent escapes.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

// identity resolves the address to an account identity when a directory
// is configured, falling back to a guest identity.
func (h *Handler) identity(ctx context.Context, addr string) subscription.Identity {
	if h.accounts != nil {
		acct, err := h.accounts.FindByEmail(ctx, addr)
		if err == nil {
			return subscription.ForAccount(acct)
		}
		if !errors.Is(err, ErrAccountNotFound) {
			h.log.ErrorContext(ctx, "account lookup failed",
				logger.Email(addr), logger.Error(err))
		}
	}
	return subscription.ForEmail(addr)
}

func (h *Handler) publish(eventType event.Type, addr, listName string) {
	if h.events == nil {
		return
	}
	h.events.Publish(event.Event{
		Type:     eventType,
		Email:    addr,
		ListName: listName,
	})
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, listName, ok := h.linkParams(r)
	if !ok {
		http.Error(w, "Invalid or expired unsubscribe link.", http.StatusBadRequest)
		return
	}

	if _, err := h.svc.Unsubscribe(ctx, h.identity(ctx, addr), listName); err != nil {
		h.log.ErrorContext(ctx, "unsubscribe failed",
			logger.Email(addr), logger.List(listName), logger.Error(err))
		h.renderError(w)
		return
	}

	h.publish(event.UnsubscriptionConfirmed, addr, listName)
	h.render(w, "unsubscribed.html", pageData{Email: addr, ListName: listName})
}

func (h *Handler) resubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, listName, ok := h.linkParams(r)
	if !ok {
		http.Error(w, "Invalid or expired unsubscribe link.", http.StatusBadRequest)
		return
	}

	if _, err := h.svc.Subscribe(ctx, h.identity(ctx, addr), listName); err != nil {
		h.log.ErrorContext(ctx, "resubscribe failed",
			logger.Email(addr), logger.List(listName), logger.Error(err))
		h.renderError(w)
		return
	}

	h.publish(event.SubscriptionConfirmed, addr, listName)
	h.render(w, "resubscribed.html", pageData{Email: addr, ListName: listName})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, listName, ok := h.linkParams(r)
	if !ok {
		h.renderError(w)
		return
	}

	if err := h.svc.Confirm(ctx, addr, listName); err != nil {
		h.log.ErrorContext(ctx, "confirmation failed",
			logger.Email(addr), logger.List(listName), logger.Error(err))
		h.renderError(w)
		return
	}

	h.publish(event.SubscriptionConfirmed, addr, listName)
	h.render(w, "confirmed.html", pageData{Email: addr, ListName: listName})
}
