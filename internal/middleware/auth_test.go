package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newAuthTestContext(t *testing.T) (context.Context, string) {
	ctx := testutil.MockContext(t)
	token, err := xcontext.TokenEngine(ctx).
		Generate(time.Minute, model.AccessToken{ID: testutil.User1.ID, Name: testutil.User1.Name})
	require.NoError(t, err)

	return ctx, token
}

func Test_AuthVerifier_bearerHeader(t *testing.T) {
	ctx, token := newAuthTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/getTimeline", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ctx = xcontext.WithHTTPRequest(ctx, req)

	newCtx, err := NewAuthVerifier().Middleware()(ctx)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, xcontext.RequestUserID(newCtx))
}

func Test_AuthVerifier_cookie(t *testing.T) {
	ctx, token := newAuthTestContext(t)

	req := httptest.NewRequest(http.MethodGet, "/getTimeline", nil)
	req.AddCookie(&http.Cookie{
		Name:  xcontext.Configs(ctx).Auth.AccessToken.Name,
		Value: token,
	})
	ctx = xcontext.WithHTTPRequest(ctx, req)

	newCtx, err := NewAuthVerifier().Middleware()(ctx)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, xcontext.RequestUserID(newCtx))
}

func Test_AuthVerifier_session(t *testing.T) {
	ctx, token := newAuthTestContext(t)
	cfg := xcontext.Configs(ctx)

	// Encode the session cookie with a store sharing the context secret.
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	session, err := store.Get(seed, cfg.Session.Name)
	require.NoError(t, err)
	session.Values["access_token"] = token
	require.NoError(t, session.Save(seed, recorder))

	req := httptest.NewRequest(http.MethodGet, "/getTimeline", nil)
	req.Header.Set("Cookie", recorder.Header().Get("Set-Cookie"))
	ctx = xcontext.WithHTTPRequest(ctx, req)

	newCtx, err := NewAuthVerifier().Middleware()(ctx)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, xcontext.RequestUserID(newCtx))
}

func Test_AuthVerifier_missingToken(t *testing.T) {
	ctx, _ := newAuthTestContext(t)
	ctx = xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodGet, "/getTimeline", nil))

	_, err := NewAuthVerifier().Middleware()(ctx)
	require.Error(t, err)

	newCtx, err := NewAuthVerifier().WithOptional().Middleware()(ctx)
	require.NoError(t, err)
	require.Empty(t, xcontext.RequestUserID(newCtx))
}
