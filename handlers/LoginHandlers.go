package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LoginHandler handles user authentication
// @Summary Login user
// @Description Authenticate user and return session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/login [post]
func LoginHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginData models.LoginRequest
		if err := c.ShouldBindJSON(&loginData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		user, err := storage.GetUserByEmail(db, loginData.Email)
		if err != nil || !utils.ValidatePassword(user.Password, loginData.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		// Check device count before generating any tokens. No devices are
		// logged out automatically, the user must logout one manually.
		sessionCount, err := storage.GetUserSessionCount(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check active sessions", "details": err.Error()})
			return
		}

		const maxSessions = 3
		if sessionCount >= maxSessions {
			c.JSON(http.StatusConflict, gin.H{
				"error":           "Maximum device limit reached",
				"message":         "You have reached the maximum limit of 3 active devices. Please logout from one device to continue.",
				"max_devices":     maxSessions,
				"current_devices": sessionCount,
				"requires_logout": true,
			})
			return
		}

		newToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		// Refresh token is bound to this session (device)
		refreshToken, err := utils.GenerateRefreshToken(user.Email, newToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		session := &models.Session{
			UserID:                user.ID,
			SessionID:             newToken,
			HostName:              user.Email,
			IPAddress:             loginData.IP,
			Timestamp:             time.Now(),
			ExpiresAt:             time.Now().Add(utils.AccessTokenTTL),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: time.Now().Add(utils.RefreshTokenTTL),
		}

		if err := storage.SaveSession(db, session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Message:      "Login successful",
			AccessToken:  newToken,
			RefreshToken: refreshToken,
			Role:         user.RoleName,
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		})
	}
}

// GetSessionHandler retrieves the user behind a session token
// @Summary Validate session
// @Description Retrieve the logged in user for the Authorization token
// @Tags Authentication
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} models.ErrorResponse
// @Router /api/session [get]
func GetSessionHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			utils.ErrorResponse(c, "No token provided", http.StatusUnauthorized)
			return
		}

		parsedToken, err := utils.ValidateJWT(token)
		if err != nil {
			utils.ErrorResponse(c, "Invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.ErrorResponse(c, "Invalid token claims", http.StatusUnauthorized)
			return
		}

		email := utils.EmailFromClaims(claims)
		if email == "" {
			utils.ErrorResponse(c, "Email claim missing or invalid", http.StatusUnauthorized)
			return
		}

		user, err := storage.GetUserBySessionID(db, token)
		if err != nil {
			utils.ErrorResponse(c, "No active session", http.StatusUnauthorized)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User is logged in", "user": user})
	}
}

// LogoutDeviceHandler logs out a specific device by session_id
// @Summary Logout specific device
// @Description Logout a specific device by providing its session_id
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body map[string]string true "Session ID to logout"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/logout-device [post]
func LogoutDeviceHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requestData struct {
			SessionID string `json:"session_id" binding:"required"`
		}

		if err := c.ShouldBindJSON(&requestData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		var sessionUserID int
		err := db.QueryRow("SELECT user_id FROM session WHERE session_id = $1", requestData.SessionID).Scan(&sessionUserID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session", "details": err.Error()})
			return
		}

		if err := storage.DeleteSessionByID(db, requestData.SessionID, sessionUserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout device", "details": err.Error()})
			return
		}

		_ = storage.DeleteRefreshToken(db, requestData.SessionID)

		utils.SuccessResponse(c, "Device logged out successfully", http.StatusOK)
	}
}

// RefreshTokenHandler handles refresh token requests to get new access tokens
// @Summary Refresh access token
// @Description Exchange refresh token for a new access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body object true "Refresh token request" SchemaExample({"refresh_token": "string"})
// @Success 200 {object} object "New access token"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/refresh-token [post]
func RefreshTokenHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var refreshRequest struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&refreshRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
			return
		}

		parsedToken, err := utils.ValidateJWT(refreshRequest.RefreshToken)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims structure"})
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}

		email := utils.EmailFromClaims(claims)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email claim missing or invalid"})
			return
		}

		user, err := storage.GetUserByEmail(db, email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		// Look the session up by refresh_token, not session_id: the session_id
		// changes on each refresh while the refresh token survives.
		var refreshTokenExpiresAt time.Time
		err = db.QueryRow(`
			SELECT refresh_token_expires_at FROM session
			WHERE refresh_token = $1 AND user_id = $2 AND refresh_token_expires_at > NOW()`,
			refreshRequest.RefreshToken, user.ID).Scan(&refreshTokenExpiresAt)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found, expired, or refresh token mismatch"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session", "details": err.Error()})
			}
			return
		}

		newAccessToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
			return
		}

		// Rotate the refresh token only when it expires within a day,
		// otherwise keep it until it actually runs out.
		now := time.Now()
		refreshTokenExpiresSoon := refreshTokenExpiresAt.Sub(now) < 24*time.Hour
		newRefreshToken := refreshRequest.RefreshToken

		var result sql.Result
		var updateErr error
		if refreshTokenExpiresSoon {
			newRefreshToken, err = utils.GenerateRefreshToken(user.Email, newAccessToken)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
				return
			}
			result, updateErr = db.Exec(`
				UPDATE session
				SET session_id = $1, expires_at = $2, timestp = $3, refresh_token = $4, refresh_token_expires_at = $5
				WHERE refresh_token = $6 AND user_id = $7`,
				newAccessToken, now.Add(utils.AccessTokenTTL), now, newRefreshToken, now.Add(utils.RefreshTokenTTL), refreshRequest.RefreshToken, user.ID)
		} else {
			result, updateErr = db.Exec(`
				UPDATE session
				SET session_id = $1, expires_at = $2, timestp = $3
				WHERE refresh_token = $4 AND user_id = $5`,
				newAccessToken, now.Add(utils.AccessTokenTTL), now, refreshRequest.RefreshToken, user.ID)
		}

		if updateErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session", "details": updateErr.Error()})
			return
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session update", "details": err.Error()})
			return
		}
		if rowsAffected == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session update failed - no matching session found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Token refreshed successfully",
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
			"role":          user.RoleName,
			"expires_in":    int(utils.AccessTokenTTL.Seconds()),
		})
	}
}
