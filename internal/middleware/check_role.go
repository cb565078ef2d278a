package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dricdias/telegram-bot/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific roles
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		if !contains(roles, user.Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "User doesn't have permission to access",
			})
		}
	}
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
