// Package auth mints and verifies the HS256 access tokens that identify the
// calling address on the sale API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the caller's address next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Address addrx.Address `json:"addr"`
}

func GenerateToken(addr addrx.Address, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   addr.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Address: addr,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAddressFromToken verifies tokenString and returns the canonical
// address it was issued for.
func GetAddressFromToken(tokenString string, secretKey []byte) (addrx.Address, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	addr, err := addrx.Parse(string(claims.Address))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	return addr, nil
}
