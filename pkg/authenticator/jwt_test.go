package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClaims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func Test_jwtTokenEngine(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(time.Minute, fakeClaims{ID: "user1", Name: "foo"})
	require.NoError(t, err)

	var claims fakeClaims
	require.NoError(t, engine.Verify(token, &claims))
	require.Equal(t, "user1", claims.ID)
	require.Equal(t, "foo", claims.Name)
}

func Test_jwtTokenEngine_expired(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(-time.Minute, fakeClaims{ID: "user1"})
	require.NoError(t, err)

	var claims fakeClaims
	require.Error(t, engine.Verify(token, &claims))
}

func Test_jwtTokenEngine_wrongSecret(t *testing.T) {
	token, err := NewTokenEngine("secret").Generate(time.Minute, fakeClaims{ID: "user1"})
	require.NoError(t, err)

	var claims fakeClaims
	require.Error(t, NewTokenEngine("another-secret").Verify(token, &claims))
}
