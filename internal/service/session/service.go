// Package session is the mock sign-in gate. Any e-mail address is
// accepted; a session lives until logout or expiry and owns one cart.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

var ErrInvalidEmail = errors.New("invalid email")

// CartHook is called when a session's cart is created. The returned func,
// if any, is called when the session ends.
type CartHook func(s domain.Session, store *cart.Store) func()

type Service struct {
	tokens *tokenManager
	ttl    time.Duration
	now    func() time.Time
	onCart CartHook
	logger *zap.Logger
}

type Option func(*Service)

func WithCartHook(h CartHook) Option {
	return func(s *Service) { s.onCart = h }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(ttl time.Duration, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		tokens: newTokenManager(),
		ttl:    ttl,
		now:    time.Now,
		logger: logging.OrNop(logger).Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login starts a session for email with an empty cart. Any non-blank
// address is accepted.
func (s *Service) Login(ctx context.Context, email string) (token string, sess domain.Session, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.Session{}, fmt.Errorf("%w: email required", ErrInvalidEmail)
	}

	token, err = randomToken()
	if err != nil {
		return "", domain.Session{}, err
	}
	now := s.now()
	sess = domain.Session{
		ID:        uuid.NewString(),
		User:      domain.User{Email: email},
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	e := &entry{session: sess, cart: cart.New()}
	if s.onCart != nil {
		e.release = s.onCart(sess, e.cart)
	}
	s.tokens.put(token, e)
	s.logger.Info("session started", zap.String("session_id", sess.ID), zap.String("email", email))
	return token, sess, nil
}

// Lookup resolves a token to its session and cart.
func (s *Service) Lookup(ctx context.Context, token string) (domain.Session, *cart.Store, error) {
	live, evicted := s.tokens.get(token, s.now())
	if evicted != nil {
		s.end(evicted, "expired")
	}
	if live == nil {
		return domain.Session{}, nil, domain.ErrUnauthorized
	}
	return live.session, live.cart, nil
}

// Logout ends the session and discards its cart. Unknown tokens are
// reported as unauthorized.
func (s *Service) Logout(ctx context.Context, token string) error {
	e := s.tokens.take(token)
	if e == nil {
		return domain.ErrUnauthorized
	}
	s.end(e, "logout")
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (s *Service) Sweep() int {
	expired := s.tokens.expired(s.now())
	for _, e := range expired {
		s.end(e, "expired")
	}
	return len(expired)
}

// Active is the number of live or not yet swept sessions.
func (s *Service) Active() int {
	return s.tokens.len()
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}

func (s *Service) end(e *entry, reason string) {
	e.cart.Clear()
	if e.release != nil {
		e.release()
	}
	s.logger.Info("session ended", zap.String("session_id", e.session.ID), zap.String("reason", reason))
}
