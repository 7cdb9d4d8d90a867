package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateProject godoc
// @Summary      Create screening project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      models.Project  true  "Project (name, rooms, segment, category, currency, amortization_type, gop_ajustado, ffe_pct)"
// @Success      201   {object}  models.Project
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/projects [post]
func CreateProject(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("Authorization")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
			return
		}

		session, _, err := GetSessionDetails(db, sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}

		var project models.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if project.Rooms <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rooms must be positive"})
			return
		}
		if project.FfePct < 0 || project.FfePct > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ffe_pct must be between 0 and 1"})
			return
		}
		if project.AmortizationType == "" {
			project.AmortizationType = "frances"
		}

		code, err := repository.NextProjectCode(db)
		if err != nil {
			code = repository.GenerateRandomCode()
		}

		query := `
			INSERT INTO project (name, code, rooms, segment, category, currency, amortization_type,
			                     gop_ajustado, ffe_pct, workflow_state, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id, created_at, updated_at`
		err = db.QueryRow(query, project.Name, code, project.Rooms, project.Segment, project.Category,
			project.Currency, project.AmortizationType, project.GopAdjusted, project.FfePct,
			models.StateDraft, session.UserID).
			Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		project.Code = code
		project.WorkflowState = models.StateDraft
		project.CreatedBy = session.UserID

		c.JSON(http.StatusCreated, project)
	}
}

// GetProjects godoc
// @Summary      List screening projects
// @Tags         projects
// @Success      200  {array}   models.Project
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projects [get]
func GetProjects(db *sql.DB) gin.HandlerFunc {
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

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		rows, err := db.QueryContext(ctx, `
			SELECT id, name, code, rooms, segment, category, currency, amortization_type,
			       gop_ajustado, ffe_pct, workflow_state, created_by, created_at, updated_at
			FROM project ORDER BY updated_at DESC`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var projects []models.Project
		for rows.Next() {
			var p models.Project
			if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Rooms, &p.Segment, &p.Category, &p.Currency,
				&p.AmortizationType, &p.GopAdjusted, &p.FfePct, &p.WorkflowState,
				&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			projects = append(projects, p)
		}
		c.JSON(http.StatusOK, projects)
	}
}

// GetProjectByID godoc
// @Summary      Get screening project
// @Tags         projects
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id} [get]
func GetProjectByID(db *sql.DB) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, project)
	}
}

// UpdateProject godoc
// @Summary      Update screening project
// @Description  Update mutable project fields. Structural changes (rooms, segment, category, gop_ajustado, ffe_pct) reset the workflow to draft since every computed stage depends on them.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Project ID"
// @Param        body  body      models.Project  true  "Project fields"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/projects/{id} [put]
func UpdateProject(db *sql.DB) gin.HandlerFunc {
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

		existing, err := storage.GetProject(db, projectID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var project models.Project
		if err := c.ShouldBindJSON(&project); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if project.Rooms <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rooms must be positive"})
			return
		}
		if project.FfePct < 0 || project.FfePct > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ffe_pct must be between 0 and 1"})
			return
		}

		structuralChange := project.Rooms != existing.Rooms ||
			project.Segment != existing.Segment ||
			project.Category != existing.Category ||
			project.GopAdjusted != existing.GopAdjusted ||
			project.FfePct != existing.FfePct

		state := existing.WorkflowState
		if structuralChange {
			state = models.StateDraft
		}

		_, err = db.Exec(`
			UPDATE project
			SET name=$1, rooms=$2, segment=$3, category=$4, currency=$5, amortization_type=$6,
			    gop_ajustado=$7, ffe_pct=$8, workflow_state=$9, updated_at=NOW()
			WHERE id=$10`,
			project.Name, project.Rooms, project.Segment, project.Category, project.Currency,
			project.AmortizationType, project.GopAdjusted, project.FfePct, state, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Project updated",
			"workflow_state": state,
		})
	}
}

// DeleteProject godoc
// @Summary      Delete screening project
// @Description  Delete a project and all its dependent rows.
// @Tags         projects
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projects/{id} [delete]
func DeleteProject(db *sql.DB) gin.HandlerFunc {
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

		tx, err := db.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}

		dependents := []string{
			"DELETE FROM monthly_commercial WHERE project_id = $1",
			"DELETE FROM monthly_usali WHERE project_id = $1",
			"DELETE FROM annual_usali WHERE project_id = $1",
			"DELETE FROM debt_schedule WHERE project_id = $1",
			"DELETE FROM projection_assumptions WHERE project_id = $1",
			"DELETE FROM financing_terms WHERE project_id = $1",
			"DELETE FROM valuation_settings WHERE project_id = $1",
			"DELETE FROM operator_contract WHERE project_id = $1",
			"DELETE FROM non_operating WHERE project_id = $1",
			"DELETE FROM valuation_result WHERE project_id = $1",
			"DELETE FROM returns_result WHERE project_id = $1",
		}
		for _, q := range dependents {
			if _, err := tx.Exec(q, projectID); err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		if _, err := tx.Exec("DELETE FROM project WHERE id = $1", projectID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := tx.Commit(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
	}
}
