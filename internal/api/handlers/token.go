package handlers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// mintToken signs a session claim with the configured secret.
func mintToken(secret string, id int64, userName string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   id,
		"user_name": userName,
		"exp":       time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies a signed session token and returns its user id
// and name.
func ParseToken(secret, token string) (int64, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}
	id, _ := claims["user_id"].(float64)
	userName, _ := claims["user_name"].(string)
	return int64(id), userName, nil
}
