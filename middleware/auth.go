package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/andrewpaige1/studydesk/config"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/utils"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// CustomClaims are the provider-specific claims carried next to the
// registered ones.
type CustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// EnsureValidToken checks bearer tokens signed by the identity provider.
// Requests without a token pass through unauthenticated; RequireSession
// guards the routes that need one.
func EnsureValidToken(env *config.Environment, log *logger.Logger) (func(http.Handler) http.Handler, error) {
	secret := []byte(env.AuthJWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		env.Issuer(),
		[]string{env.AuthAudience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("token validation failed", "path", r.URL.Path, "error", err)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorBody{Error: "Failed to validate JWT.", Redirect: utils.AuthRedirect})
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(true),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}
