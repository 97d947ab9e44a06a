package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/openfeed-lab/backend/internal/entity"
	"github.com/openfeed-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plaintext password of every fixture user.
const Password = "Password123"

var fixtureTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1", CreatedAt: fixtureTime},
		Name:  "alice",
		Email: "alice@example.com",
		Bio:   "gardening and biking",
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2", CreatedAt: fixtureTime},
		Name:  "bob",
		Email: "bob@example.com",
		Bio:   "amateur photographer",
	}

	User3 = entity.User{
		Base:  entity.Base{ID: "user3", CreatedAt: fixtureTime},
		Name:  "carol",
		Email: "carol@example.com",
	}

	// User1 follows User2. User3 follows nobody and has no followers.
	Follow1 = entity.Follow{
		CreatedAt:  fixtureTime,
		FollowerID: User1.ID,
		UserID:     User2.ID,
	}

	Post1 = entity.Post{
		Base:    entity.Base{ID: "post1", CreatedAt: fixtureTime.Add(1 * time.Hour)},
		UserID:  User1.ID,
		Content: "first tomatoes of the season",
	}

	Post2 = entity.Post{
		Base:    entity.Base{ID: "post2", CreatedAt: fixtureTime.Add(2 * time.Hour)},
		UserID:  User2.ID,
		Content: "sunrise over the harbor",
	}

	Post3 = entity.Post{
		Base:    entity.Base{ID: "post3", CreatedAt: fixtureTime.Add(3 * time.Hour)},
		UserID:  User3.ID,
		Content: "does anyone still read newsletters",
	}
)

// CreateFixtureDb seeds the database behind ctx with the fixture records
// above. Follower counters are kept consistent with the follow rows.
func CreateFixtureDb(ctx context.Context, t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	users := []entity.User{User1, User2, User3}
	for i := range users {
		users[i].HashedPassword = string(hashed)
	}
	users[1].Followers = 1
	users[0].Followings = 1

	require.NoError(t, xcontext.DB(ctx).Create(&users).Error)

	follow := Follow1
	require.NoError(t, xcontext.DB(ctx).Create(&follow).Error)

	posts := []entity.Post{Post1, Post2, Post3}
	require.NoError(t, xcontext.DB(ctx).Create(&posts).Error)
}
