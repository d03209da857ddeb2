package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenExpiry extracts the exp claim from a JWT without verifying its signature.
// medigate never mints or validates upstream tokens; it only needs the expiry
// to size session lifetimes. Opaque (non-JWT) tokens return an error and the
// caller falls back to the configured TTL.
func TokenExpiry(tokenString string) (time.Time, error) {
	parser := jwt.Parser{}
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, errors.New("unexpected claims type")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("token does not carry an exp claim")
	}

	return time.Unix(int64(exp), 0), nil
}
