package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrewpaige1/studydesk/apiclient"
)

// Provider is the hosted identity service. SignUp may return a nil session
// when the account still needs email confirmation.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// GoTrue talks to a GoTrue-compatible auth REST API.
type GoTrue struct {
	client *apiclient.Client
	now    func() time.Time
}

// NewGoTrue builds a provider on a client whose base URL is the auth
// project URL (without /auth/v1) and which sends the apikey header.
func NewGoTrue(client *apiclient.Client) *GoTrue {
	return &GoTrue{client: client, now: time.Now}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	if err := g.client.Post(ctx, "/auth/v1/signup", credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	return g.session(resp)
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenResponse
	if err := g.client.Post(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return g.session(resp)
}

func (g *GoTrue) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("auth: no refresh token")
	}
	body := map[string]string{"refresh_token": refreshToken}
	var resp tokenResponse
	if err := g.client.Post(ctx, "/auth/v1/token?grant_type=refresh_token", body, &resp); err != nil {
		return nil, err
	}
	return g.session(resp)
}

func (g *GoTrue) SignOut(ctx context.Context, accessToken string) error {
	return g.client.Post(ctx, "/auth/v1/logout", nil, nil, apiclient.WithBearer(accessToken))
}

func (g *GoTrue) session(resp tokenResponse) (*Session, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("auth: provider returned no access token")
	}
	sess := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         User{ID: resp.User.ID, Email: resp.User.Email},
	}
	switch {
	case resp.ExpiresAt > 0:
		sess.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		sess.ExpiresAt = g.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	// Fill anything the response left out from the token itself.
	if sess.User.ID == "" || sess.ExpiresAt.IsZero() {
		claims, err := ParseClaims(resp.AccessToken)
		if err != nil {
			return nil, err
		}
		if sess.User.ID == "" {
			sess.User.ID = claims.Subject
			sess.User.Email = claims.Email
		}
		if sess.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
			sess.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	if sess.User.ID == "" {
		return nil, fmt.Errorf("auth: session has no user")
	}
	return sess, nil
}
