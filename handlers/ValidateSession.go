package handlers

import (
	"backend/models"
	"backend/services"
	"backend/storage"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetSessionDetails resolves the session named in the Authorization header
// to the session row and the first name of its owner. Expired sessions and
// suspended accounts both fail.
func GetSessionDetails(db *sql.DB, sessionID string) (*models.Session, string, error) {
	user, err := storage.GetUserBySessionID(db, sessionID)
	if err != nil {
		return nil, "", err
	}

	var session models.Session
	err = db.QueryRow(`
		SELECT user_id, session_id, host_name, ip_address, timestp, expires_at
		FROM session WHERE session_id = $1`, sessionID).
		Scan(&session.UserID, &session.SessionID, &session.HostName,
			&session.IPAddress, &session.Timestamp, &session.ExpiresAt)
	if err != nil {
		return nil, "", err
	}

	return &session, user.FirstName, nil
}

// ValidateSession validates user session
// @Summary Validate session
// @Description Validate user session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param Authorization header string true "Session ID"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader("Authorization"))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
			return
		}

		var sessionHost string
		var expiresAt time.Time
		err := db.QueryRow("SELECT host_name, expires_at FROM session WHERE session_id = $1 AND expires_at > NOW()", sessionID).
			Scan(&sessionHost, &expiresAt)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		user, err := storage.GetUserByEmail(db, sessionHost)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session validated",
			"session_id": sessionID,
			"host_name":  sessionHost,
			"is_admin":   user.IsAdmin,
			"expires_at": expiresAt,
		})
	}
}

// respondCalcError maps calculation errors onto HTTP statuses. Bad input is
// a 400, a missing upstream step is a 409, a missing row is a 404, anything
// else is a 500.
func respondCalcError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPrecondition), errors.Is(err, services.ErrMissingConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Requested record not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
