package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateUser godoc
// @Summary      Create user
// @Description  Create an analyst account. Admin only. The password is stored bcrypt-hashed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      models.User  true  "User (email, password, first_name, last_name, is_admin)"
// @Success      201   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Router       /api/users [post]
func CreateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		caller, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}
		if !caller.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if user.Email == "" || user.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		hashed, err := utils.HashPassword(user.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		err = db.QueryRow(`
			INSERT INTO users (email, password, first_name, last_name, is_admin, suspended, created_at, updated_at)
			VALUES (LOWER($1), $2, $3, $4, $5, false, NOW(), NOW())
			RETURNING id`,
			user.Email, hashed, user.FirstName, user.LastName, user.IsAdmin).Scan(&user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "User created",
			"id":      user.ID,
		})
	}
}

// GetUsers godoc
// @Summary      List users
// @Tags         users
// @Success      200  {array}   models.User
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/users [get]
func GetUsers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}

		rows, err := db.Query(`
			SELECT id, email, first_name, last_name, created_at, updated_at, is_admin, suspended
			FROM users ORDER BY id`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var users []models.User
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName,
				&u.CreatedAt, &u.UpdatedAt, &u.IsAdmin, &u.Suspended); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			users = append(users, u)
		}
		c.JSON(http.StatusOK, users)
	}
}

// SuspendUser godoc
// @Summary      Suspend or reinstate user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int     true  "User ID"
// @Param        body  body      object  true  "{suspended: bool}"
// @Success      200   {object}  models.MessageResponse
// @Failure      403   {object}  models.ErrorResponse
// @Router       /api/users/{id}/suspend [put]
func SuspendUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			utils.ErrorResponse(c, "session-id header is required", http.StatusBadRequest)
			return
		}

		caller, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil {
			utils.ErrorResponse(c, "Invalid session", http.StatusUnauthorized)
			return
		}
		if !caller.IsAdmin {
			utils.ErrorResponse(c, "Admin access required", http.StatusForbidden)
			return
		}

		userID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			utils.ErrorResponse(c, "Invalid user ID", http.StatusBadRequest)
			return
		}

		var body struct {
			Suspended bool `json:"suspended"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			utils.ErrorResponse(c, "Invalid input", http.StatusBadRequest)
			return
		}

		if _, err := db.Exec(`UPDATE users SET suspended = $1, updated_at = NOW() WHERE id = $2`,
			body.Suspended, userID); err != nil {
			utils.ErrorResponse(c, err.Error(), http.StatusInternalServerError)
			return
		}

		// Suspension takes effect immediately: drop any live session.
		if body.Suspended {
			_, _ = db.Exec(`DELETE FROM session WHERE user_id = $1`, userID)
		}

		utils.SuccessResponse(c, "User updated", http.StatusOK)
	}
}
