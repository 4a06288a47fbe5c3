package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the identity service. This service
// only validates tokens; issuance happens elsewhere.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ValidateToken parses and validates the signature and expiration of a JWT
// string and returns its claims.
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
