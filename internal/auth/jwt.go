// Package auth issues and validates access tokens for the web dashboard.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is the issuer claim stamped into every token we sign.
const JwtIssuer = "telegram-file-organizer"

var secretKey = os.Getenv("SECRET_KEY")

// GenerateToken signs an HS256 access token for the given user id.
func GenerateToken(id uuid.UUID) (string, error) {

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    JwtIssuer,
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := accessToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidatedToken parses and verifies an encoded token.
func ValidatedToken(encodedToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodedToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isValid := token.Method.(*jwt.SigningMethodHMAC); !isValid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(secretKey), nil
	})
}
