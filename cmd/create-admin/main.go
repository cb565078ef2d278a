// Command create-admin generates a dashboard admin account with random
// credentials and prints them once.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/utilities"
)

// generateRandomString creates a random hex string of length n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) string {
	for {
		username := "admin_" + generateRandomString(4)
		var count int64
		db.Model(&model.User{}).Where("username = ?", username).Count(&count)
		if count == 0 {
			return username
		}
	}
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	username := generateUniqueUsername(db.DB)
	password := generateRandomString(8)

	utilities.CreateAdmin(password, username, db.DB)

	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
