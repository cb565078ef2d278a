// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dricdias/telegram-bot/internal/model"
)

// ErrorResponse is the JSON body returned on handler failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON body returned on simple successes.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; it returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a candidate plain password.
func CheckPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CreateAdmin creates an admin user with the given password and username in the provided database.
func CreateAdmin(password string, username string, db *gorm.DB) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.User{
		Username: username,
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}
}
