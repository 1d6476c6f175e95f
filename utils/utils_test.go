package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("printer@matbixx.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ValidateJWT(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "printer@matbixx.com", claims["email"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateRefreshToken_BoundToSession(t *testing.T) {
	refresh, err := GenerateRefreshToken("printer@matbixx.com", "session-abc")
	require.NoError(t, err)

	parsed, err := ValidateJWT(refresh)
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "refresh", claims["type"])
	assert.Equal(t, "session-abc", claims["sessionId"])
}

func TestValidateJWT_RejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestEmailFromClaims(t *testing.T) {
	assert.Equal(t, "a@b.com", EmailFromClaims(jwt.MapClaims{"email": "a@b.com"}))
	assert.Equal(t, "c@d.com", EmailFromClaims(jwt.MapClaims{"Email": "c@d.com"}))
	assert.Equal(t, "a@b.com", EmailFromClaims(jwt.MapClaims{"email": "a@b.com", "Email": "c@d.com"}))
	assert.Equal(t, "", EmailFromClaims(jwt.MapClaims{}))
}

func TestResponseHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessResponse(c, "Device logged out successfully", http.StatusOK)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"message":"Device logged out successfully"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ErrorResponse(c, "Invalid token", http.StatusUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":401,"message":"Invalid token"}`, w.Body.String())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, ValidatePassword(hash, "s3cret-password"))
	assert.False(t, ValidatePassword(hash, "wrong-password"))
}
