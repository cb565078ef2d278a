package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/model"
	"github.com/dricdias/telegram-bot/internal/utilities"
)

// LocalAuthHandler serves username/password login for the dashboard.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler constructs a LocalAuthHandler bound to the given database.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{DB: db}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// LocalLoginHandler validates credentials and issues an access token.
func (h *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info credentials
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid login payload: %s", err.Error()),
		})
		return
	}

	var user model.User
	if err := h.DB.Where("username = ?", info.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	if !utilities.CheckPassword(user.Password, info.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid username or password"})
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, loginResponse{AccessToken: token, User: user})
}
