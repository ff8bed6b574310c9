package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
    access, err := NewAccessToken("secret", 42, []string{"customer", "staff"}, 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 5*time.Second)

    tok, err := jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(42), claims["sub"])
    roles, ok := claims["roles"].([]interface{})
    require.True(t, ok)
    assert.Equal(t, []interface{}{"customer", "staff"}, roles)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
    access, err := NewAccessToken("secret", 42, nil, 15)
    require.NoError(t, err)

    _, err = jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
        return []byte("other"), nil
    })
    assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
    ref, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.Len(t, ref.Raw, 96) // 48 random bytes hex encoded
    assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), ref.Exp, 5*time.Second)

    other, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.NotEqual(t, ref.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
    h := HashRefreshRaw("some-token")
    assert.Len(t, h, 64) // SHA-256 hex
    assert.Equal(t, h, HashRefreshRaw("some-token"))
    assert.NotEqual(t, h, HashRefreshRaw("other-token"))
}
