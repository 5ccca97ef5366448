package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrewpaige1/studydesk/logger"
)

// ErrConfirmationRequired is returned by SignUp when the provider created
// the account but did not start a session.
var ErrConfirmationRequired = errors.New("auth: confirm your email to sign in")

// ErrInvalidToken is returned when the provider hands out an access token
// that does not verify against the configured secret.
var ErrInvalidToken = errors.New("auth: provider returned an invalid token")

// Service ties the identity provider to the process-wide session store.
type Service struct {
	provider Provider
	store    *SessionStore
	log      *logger.Logger
	secret   string
}

type ServiceOption func(*Service)

// WithTokenSecret makes the service verify every access token the provider
// returns with the shared HS256 secret before it becomes the session.
func WithTokenSecret(secret string) ServiceOption {
	return func(s *Service) { s.secret = secret }
}

func NewService(provider Provider, store *SessionStore, log *logger.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{provider: provider, store: store, log: log.With("service", "AuthService")}
	for _, opt := range opts {
		opt(s)
	}
	store.OnExpire(s.refreshExpired)
	return s
}

// verify checks sess's access token when a secret is configured. The
// token subject must be the session user.
func (s *Service) verify(sess *Session) error {
	if s.secret == "" {
		return nil
	}
	claims, err := VerifyToken(s.secret, sess.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject != sess.User.ID {
		return fmt.Errorf("%w: subject %q is not user %q", ErrInvalidToken, claims.Subject, sess.User.ID)
	}
	return nil
}

func (s *Service) Store() *SessionStore { return s.store }

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.verify(sess); err != nil {
		s.log.Warn("rejected provider session", "error", err)
		return nil, err
	}
	s.store.Set(sess)
	s.log.Info("signed in", "user_id", sess.User.ID)
	return sess, nil
}

// SignUp creates an account. When the provider also starts a session it
// becomes the current one; otherwise ErrConfirmationRequired is returned.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrConfirmationRequired
	}
	if err := s.verify(sess); err != nil {
		s.log.Warn("rejected provider session", "error", err)
		return nil, err
	}
	s.store.Set(sess)
	return sess, nil
}

// SignOut always clears the local session; a failed remote logout is only
// logged.
func (s *Service) SignOut(ctx context.Context) {
	sess := s.store.Current()
	if sess == nil {
		return
	}
	if err := s.provider.SignOut(ctx, sess.AccessToken); err != nil {
		s.log.Warn("remote sign-out failed", "error", err)
	}
	s.store.Clear()
}

func (s *Service) refreshExpired(sess *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	next, err := s.provider.Refresh(ctx, sess.RefreshToken)
	if err == nil {
		err = s.verify(next)
	}
	if err != nil {
		s.log.Warn("session refresh failed", "error", err)
		s.store.Expire()
		return
	}
	s.store.Set(next)
}
