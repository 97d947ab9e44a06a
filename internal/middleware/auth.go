package middleware

import (
	"context"
	"strings"

	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/router"
	"github.com/openfeed-lab/backend/pkg/xcontext"
)

// AuthVerifier resolves the request user from the access token. By default a
// missing or invalid token rejects the request; WithOptional lets anonymous
// requests through without a user id.
type AuthVerifier struct {
	optional bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token == "" {
			if a.optional {
				return ctx, nil
			}

			return ctx, errorx.New(errorx.Unauthenticated, "You must login to use this API")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

// getAccessToken resolves the token from the bearer header, the plain
// access-token cookie, or the session, in that order.
func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if after, found := strings.CutPrefix(authorization, "Bearer "); found {
		return after
	}

	cfg := xcontext.Configs(ctx)
	if cookie, err := req.Cookie(cfg.Auth.AccessToken.Name); err == nil {
		return cookie.Value
	}

	session, err := xcontext.SessionStore(ctx).Get(req, cfg.Session.Name)
	if err != nil {
		return ""
	}

	token, _ := session.Values["access_token"].(string)
	return token
}
