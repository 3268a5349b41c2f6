package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("ADMIN_JWT_SECRET"))

// Claims for the ingestion/admin surface. Tokens are minted by the ops
// tooling that runs the normalization pipeline; this service only validates.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
