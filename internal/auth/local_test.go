package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/testutil"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context) error

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

func loginEngine() *gin.Engine {
	handler := NewLocalAuthHandler(testDB)
	r := gin.New()
	r.POST("/login", handler.LocalLoginHandler)
	return r
}

// assertValidAccessToken validates the token in the response and returns its claims.
func assertValidAccessToken(t *testing.T, resp map[string]interface{}) *jwt.RegisteredClaims {
	t.Helper()

	tokenStr, ok := resp["access_token"].(string)
	require.True(t, ok, "access_token not a string")

	token, err := ValidatedToken(tokenStr)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok, "claims type mismatch")
	assert.Equal(t, JwtIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.Subject)
	return claims
}

func TestLoginSuccess(t *testing.T) {
	r := loginEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": database.TestAdminUser.Username,
		"password": database.TestSeedPassword,
	}, "", r, "/login", http.MethodPost)

	require.Equal(t, http.StatusOK, rec.Code, "unexpected status, body: %s", rec.Body.String())

	claims := assertValidAccessToken(t, resp)
	assert.Equal(t, database.TestAdminUser.ID.String(), claims.Subject)

	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok, "user object missing")
	assert.Equal(t, database.TestAdminUser.Username, user["username"])
	// The password hash never leaves the server.
	assert.NotContains(t, user, "password")
}

func TestLoginWrongPassword(t *testing.T) {
	r := loginEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": database.TestAdminUser.Username,
		"password": "wrong-password",
	}, "", r, "/login", http.MethodPost)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, resp["error"], "Invalid username or password")
}

func TestLoginUnknownUser(t *testing.T) {
	r := loginEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username": "does_not_exist",
		"password": "whatever123",
	}, "", r, "/login", http.MethodPost)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, resp["error"], "Invalid username or password")
}

func TestLoginMissingFields(t *testing.T) {
	r := loginEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{"username": "only_user"}, "", r, "/login", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(database.TestViewerUser.ID)
	require.NoError(t, err)

	parsed, err := ValidatedToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, database.TestViewerUser.ID.String(), claims.Subject)
	assert.Equal(t, JwtIssuer, claims.Issuer)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := ValidatedToken("not.a.token")
	assert.Error(t, err)
}
