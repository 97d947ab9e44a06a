package domain

import (
	"context"
	"testing"

	"github.com/openfeed-lab/backend/internal/model"
	"github.com/openfeed-lab/backend/internal/repository"
	"github.com/openfeed-lab/backend/pkg/errorx"
	"github.com/openfeed-lab/backend/pkg/testutil"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestAuthDomain(t *testing.T) (context.Context, *authDomain) {
	ctx := testutil.MockContext(t)
	testutil.CreateFixtureDb(ctx, t)

	authDomain := NewAuthDomain(
		repository.NewUserRepository(testutil.NewMockSearchCaller(), testutil.NewMockRedisClient()))
	return ctx, authDomain
}

func Test_authDomain_Register(t *testing.T) {
	ctx, authDomain := newTestAuthDomain(t)

	resp, err := authDomain.Register(ctx, &model.RegisterRequest{
		Name:     "dave",
		Email:    "dave@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "dave", resp.User.Name)
}

func Test_authDomain_Register_invalid(t *testing.T) {
	ctx, authDomain := newTestAuthDomain(t)

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Name:     "d",
		Email:    "dave@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Name:     "dave",
		Email:    "not-an-email",
		Password: "correct horse battery",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Name:     "dave",
		Email:    "dave@example.com",
		Password: "short",
	})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_authDomain_Register_duplicated(t *testing.T) {
	ctx, authDomain := newTestAuthDomain(t)

	_, err := authDomain.Register(ctx, &model.RegisterRequest{
		Name:     testutil.User1.Name,
		Email:    "other@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	_, err = authDomain.Register(ctx, &model.RegisterRequest{
		Name:     "newcomer",
		Email:    testutil.User1.Email,
		Password: "correct horse battery",
	})
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)
}

func Test_authDomain_Login(t *testing.T) {
	ctx, authDomain := newTestAuthDomain(t)

	resp, err := authDomain.Login(ctx, &model.LoginRequest{
		Name:     testutil.User1.Name,
		Password: testutil.Password,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, testutil.User1.ID, resp.User.ID)

	var accessToken model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &accessToken))
	require.Equal(t, testutil.User1.ID, accessToken.ID)
}

func Test_authDomain_Login_wrongPassword(t *testing.T) {
	ctx, authDomain := newTestAuthDomain(t)

	_, err := authDomain.Login(ctx, &model.LoginRequest{
		Name:     testutil.User1.Name,
		Password: "not the password",
	})
	require.Equal(t, errorx.Unauthenticated, err.(errorx.Error).Code)

	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Name:     "ghost",
		Password: testutil.Password,
	})
	require.Equal(t, errorx.Unauthenticated, err.(errorx.Error).Code)
}
