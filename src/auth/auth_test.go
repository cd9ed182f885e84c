package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hp := HashPassword("hunter2")
	assert.Equal(t, Argon2id, hp.Algorithm)
	assert.NotEmpty(t, hp.Salt)
	assert.NotEmpty(t, hp.Hash)

	t.Run("round trip through the string format", func(t *testing.T) {
		parsed, err := ParsePasswordString(hp.String())
		assert.Nil(t, err)
		assert.Equal(t, hp, parsed)
	})

	t.Run("correct password", func(t *testing.T) {
		ok, err := CheckPassword("hunter2", hp)
		assert.Nil(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := CheckPassword("hunter3", hp)
		assert.Nil(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		bad := hp
		bad.Algorithm = "md5"
		_, err := CheckPassword("hunter2", bad)
		assert.NotNil(t, err)
	})
}

func TestParsePasswordString(t *testing.T) {
	_, err := ParsePasswordString("nonsense")
	assert.NotNil(t, err)

	parsed, err := ParsePasswordString("argon2id$t=1,m=40960,p=1,l=64$c2FsdA==$aGFzaA==")
	assert.Nil(t, err)
	assert.Equal(t, Argon2id, parsed.Algorithm)
	assert.Equal(t, "t=1,m=40960,p=1,l=64", parsed.AlgoConfig)
}

func TestParseArgon2idConfig(t *testing.T) {
	cfg, err := ParseArgon2idConfig("t=1,m=40960,p=1,l=64")
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), cfg.Time)
	assert.Equal(t, uint32(40960), cfg.Memory)
	assert.Equal(t, uint8(1), cfg.Threads)
	assert.Equal(t, uint32(64), cfg.KeyLength)
	assert.Equal(t, "t=1,m=40960,p=1,l=64", cfg.String())

	_, err = ParseArgon2idConfig("garbage")
	assert.NotNil(t, err)
}

func TestAccessTokens(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token, err := CreateAccessToken("user@example.com", 0)
		assert.Nil(t, err)

		email, err := ValidateAccessToken(token)
		assert.Nil(t, err)
		assert.Equal(t, "user@example.com", email)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := CreateAccessToken("user@example.com", -time.Hour)
		assert.Nil(t, err)

		_, err = ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ValidateAccessToken("garbage.garbage.garbage")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
