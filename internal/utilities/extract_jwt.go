package utilities

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken pulls the access token out of the Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) || len(authHeader) == len(bearerPrefix) {
		return "", errors.New("Invalid authorization header")
	}

	return authHeader[len(bearerPrefix):], nil
}
