package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"chat-relay/domain"
)

// CustomClaims defines the data stored inside a session JWT.
// DisplayName and Email travel in the token so the relay can attach a full
// identity at connection accept without a user-store lookup.
type CustomClaims struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates session tokens with an HS256 secret.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret []byte, duration time.Duration) *TokenManager {
	return &TokenManager{secret: secret, duration: duration}
}

// Generate creates a signed JWT for the given identity.
func (t *TokenManager) Generate(identity domain.Identity) (string, error) {
	claims := &CustomClaims{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chat-relay",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses the token and checks its signature and expiration.
func (t *TokenManager) Validate(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
