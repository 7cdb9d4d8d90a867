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
	"github.com/google/uuid"
)

// LoginHandler authenticates a user and opens a session
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
		var loginData struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
			IP       string `json:"ip"`
		}

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

		sessionID := uuid.NewString()

		accessToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		refreshToken, err := utils.GenerateRefreshToken(user.Email, sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		ip := loginData.IP
		if ip == "" {
			ip = c.ClientIP()
		}

		// A fresh login replaces any previous session for this user.
		session := &models.Session{
			UserID:                user.ID,
			SessionID:             sessionID,
			HostName:              user.Email,
			IPAddress:             ip,
			Timestamp:             time.Now(),
			ExpiresAt:             time.Now().Add(utils.AccessTokenTTL),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: time.Now().Add(utils.RefreshTokenTTL),
		}

		if err := storage.SaveSession(db, session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"session_id":    sessionID,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"user": gin.H{
				"id":         user.ID,
				"email":      user.Email,
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"is_admin":   user.IsAdmin,
			},
		})
	}
}

// RefreshTokenHandler exchanges a refresh token for a new access token
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

		sessionID, ok := claims["sessionId"].(string)
		if !ok || sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session information missing in refresh token"})
			return
		}

		email, ok := claims["email"].(string)
		if !ok || email == "" {
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

		// The stored refresh token must match the presented one exactly.
		storedToken, err := storage.GetRefreshTokenBySession(db, sessionID)
		if err != nil || storedToken != refreshRequest.RefreshToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found, expired, or refresh token mismatch"})
			return
		}

		newAccessToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
			return
		}

		_, err = db.Exec(`UPDATE session SET expires_at = $1, timestp = $2 WHERE session_id = $3`,
			time.Now().Add(utils.AccessTokenTTL), time.Now(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Token refreshed successfully",
			"session_id":   sessionID,
			"access_token": newAccessToken,
			"expires_in":   int(utils.AccessTokenTTL.Seconds()),
		})
	}
}

// LogoutHandler closes the session named in the Authorization header
// @Summary Logout
// @Description Delete the current session
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Session ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/logout [post]
func LogoutHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader("Authorization"))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		if err := storage.DeleteSessionByID(db, sessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Session deleted, user logged out"})
	}
}
