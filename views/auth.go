package views

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/andrewpaige1/studydesk/auth"
)

type AuthMode string

const (
	ModeLogin  AuthMode = "login"
	ModeSignup AuthMode = "signup"
)

const ActionAuth = "auth"

// AuthPage is the sign-in / sign-up screen.
type AuthPage struct {
	*env
	busy Busy

	mu   sync.Mutex
	mode AuthMode
}

func newAuthPage(e *env) *AuthPage {
	return &AuthPage{env: e, mode: ModeLogin}
}

func (p *AuthPage) SetMode(mode AuthMode) error {
	if mode != ModeLogin && mode != ModeSignup {
		return p.invalid("Unknown mode.")
	}
	p.mu.Lock()
	p.mode = mode
	p.mu.Unlock()
	return nil
}

func (p *AuthPage) Mode() AuthMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Submit signs in or up depending on the mode. A signup that needs email
// confirmation returns a nil session and no error.
func (p *AuthPage) Submit(ctx context.Context, email, password string) (*auth.Session, error) {
	creds := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := p.check(creds, "Please enter your email and password."); err != nil {
		return nil, err
	}
	end, err := p.busy.Begin(ActionAuth)
	if err != nil {
		return nil, err
	}
	defer end()

	var sess *auth.Session
	if p.Mode() == ModeSignup {
		sess, err = p.Auth.SignUp(ctx, creds.Email, creds.Password)
		if errors.Is(err, auth.ErrConfirmationRequired) {
			p.toasts.Success("Account created! Check your email to confirm.")
			return nil, nil
		}
	} else {
		sess, err = p.Auth.SignIn(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		p.toasts.Error(Message(err))
		return nil, err
	}
	return sess, nil
}

type AuthState struct {
	Mode AuthMode `json:"mode"`
	Busy bool     `json:"busy"`
}

func (p *AuthPage) Snapshot() AuthState {
	return AuthState{Mode: p.Mode(), Busy: p.busy.Is(ActionAuth)}
}
