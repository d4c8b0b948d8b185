package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"relaychat/api/internal/models"
)

// SessionClaims is the full signed claim set carried in the session cookie.
// Fields are explicit; anything not assigned here does not exist on the
// token.
type SessionClaims struct {
	Email string           `json:"email"`
	Class models.UserClass `json:"class"`
	Name  string           `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(secret string, claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// NewSessionClaims stamps the registered claims for a session issued now.
func NewSessionClaims(userID string, email string, class models.UserClass, name string, ttl time.Duration) SessionClaims {
	now := time.Now()
	return SessionClaims{
		Email: email,
		Class: class,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
