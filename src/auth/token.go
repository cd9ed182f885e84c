package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/oops"
)

var ErrInvalidToken = errors.New("invalid access token")

// CreateAccessToken issues a signed bearer token for the given account email.
// Lifetime comes from config unless a nonzero override is given.
func CreateAccessToken(email string, lifetime time.Duration) (string, error) {
	if lifetime == 0 {
		lifetime = config.Config.Auth.TokenLifetime
	}

	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config.Auth.TokenSecret))
	if err != nil {
		return "", oops.New(err, "failed to sign access token")
	}
	return signed, nil
}

// ValidateAccessToken checks the signature and expiry of a bearer token and
// returns the email it was issued for. All failures collapse into
// ErrInvalidToken so that callers cannot leak the distinction to clients.
func ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, oops.New(nil, "unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(config.Config.Auth.TokenSecret), nil
		},
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
