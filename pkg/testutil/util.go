package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/openfeed-lab/backend/config"
	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/authenticator"
	"github.com/openfeed-lab/backend/pkg/logger"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: config.Duration{Duration: time.Minute},
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "test_session",
		},
		File: config.FileConfigs{
			MaxSize:     2 << 20,
			ImageBucket: "images",
		},
	}
}

// MockContext returns a context wired like a real request, backed by an
// isolated in-memory database with all tables migrated.
func MockContext(t *testing.T) context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine("token-secret"))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte("session-secret")))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	ctx = xcontext.WithSnowFlake(ctx, node)

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store, while the random name isolates tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	ctx = xcontext.WithDB(ctx, db)

	require.NoError(t, entity.MigrateTable(ctx))
	return ctx
}

func MockContextWithUserID(t *testing.T, userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(t), userID)
}
