package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/storage"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func validateCommercialRow(row models.MonthlyCommercial) error {
	if row.Month < 1 || row.Month > 12 {
		return fmt.Errorf("month %d out of range", row.Month)
	}
	if row.DaysOpen < 0 || row.DaysOpen > 31 {
		return fmt.Errorf("month %d: days_open %d out of range", row.Month, row.DaysOpen)
	}
	if math.IsNaN(row.Occupancy) || row.Occupancy < 0 || row.Occupancy > 1 {
		return fmt.Errorf("month %d: occupancy must be in [0,1]", row.Month)
	}
	if math.IsNaN(row.ADR) || row.ADR < 0 {
		return fmt.Errorf("month %d: adr must be non-negative", row.Month)
	}
	return nil
}

// SaveMonthlyCommercial godoc
// @Summary      Save Year-1 commercial input
// @Description  Replace all twelve monthly commercial rows of a project. Roomnights and rooms revenue are derived server-side from occupancy, ADR and days open.
// @Tags         commercial
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true  "Project ID"
// @Param        body  body      []models.MonthlyCommercial   true  "Twelve monthly rows"
// @Success      200   {array}   models.MonthlyCommercial
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/commercial [put]
func SaveMonthlyCommercial(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		projectID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}

		project, err := storage.GetProject(db, projectID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var months []models.MonthlyCommercial
		if err := c.ShouldBindJSON(&months); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(months) != 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("expected 12 monthly rows, got %d", len(months))})
			return
		}

		seen := make(map[int]bool, 12)
		for _, row := range months {
			if err := validateCommercialRow(row); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if seen[row.Month] {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("duplicate month %d", row.Month)})
				return
			}
			seen[row.Month] = true
		}

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}

		if _, err := tx.Exec("DELETE FROM monthly_commercial WHERE project_id = $1", projectID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		stmt, err := tx.Prepare(`
			INSERT INTO monthly_commercial (project_id, month, days_open, occupancy, adr, roomnights, rooms_revenue)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare statement"})
			return
		}
		defer stmt.Close()

		for i := range months {
			months[i].ProjectID = projectID
			// A closed month carries no activity regardless of the input.
			if months[i].DaysOpen == 0 {
				months[i].Occupancy = 0
				months[i].ADR = 0
			}
			rn := math.Round(months[i].Occupancy * float64(project.Rooms) * float64(months[i].DaysOpen))
			months[i].Roomnights = int(rn)
			months[i].RoomsRevenue = rn * months[i].ADR

			if _, err := stmt.Exec(projectID, months[i].Month, months[i].DaysOpen,
				months[i].Occupancy, months[i].ADR, months[i].Roomnights, months[i].RoomsRevenue); err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed"})
			return
		}

		c.JSON(http.StatusOK, months)
	}
}

// GetMonthlyCommercial godoc
// @Summary      Get Year-1 commercial input
// @Tags         commercial
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.MonthlyCommercial
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/commercial [get]
func GetMonthlyCommercial(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		projectID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}

		rows, err := db.Query(`
			SELECT id, project_id, month, days_open, occupancy, adr, roomnights, rooms_revenue
			FROM monthly_commercial WHERE project_id = $1 ORDER BY month`, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var months []models.MonthlyCommercial
		for rows.Next() {
			var m models.MonthlyCommercial
			if err := rows.Scan(&m.ID, &m.ProjectID, &m.Month, &m.DaysOpen, &m.Occupancy,
				&m.ADR, &m.Roomnights, &m.RoomsRevenue); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			months = append(months, m)
		}
		c.JSON(http.StatusOK, months)
	}
}

// AcceptCommercial godoc
// @Summary      Accept Year-1 commercial input
// @Description  Mark the commercial input as accepted, enabling the USALI calculation. Requires all twelve monthly rows to be saved.
// @Tags         commercial
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/commercial/accept [post]
func AcceptCommercial(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		if _, _, err := GetSessionDetails(db, sessionID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		projectID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			return
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM monthly_commercial WHERE project_id = $1", projectID).Scan(&count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count != 12 {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("commercial input incomplete: %d of 12 months saved", count)})
			return
		}

		if err := storage.AdvanceWorkflowState(db, projectID, models.StateCommercialAccepted, repository.StageRank); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Commercial input accepted",
			"workflow_state": models.StateCommercialAccepted,
		})
	}
}
