package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RunValuationHandler godoc
// @Summary      Run valuation and returns
// @Description  Compute the exit valuation, implied purchase price and unlevered/levered IRR and MOIC from the full annual series, the debt schedule and the saved financing and valuation settings. Advances the workflow to finalized.
// @Tags         valuation
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/valuation/run [post]
func RunValuationHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
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

		if repository.StageRank(project.WorkflowState) < repository.StageRank(models.StateProjected) {
			c.JSON(http.StatusConflict, gin.H{"error": "Projection has not been run yet"})
			return
		}

		annuals, err := storage.GetAnnualSeries(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		debt, err := storage.GetDebtSchedule(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		terms, err := loadFinancingTerms(db, projectID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No financing terms saved for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var settings models.ValuationSettings
		err = db.QueryRow(`
			SELECT project_id, method, cap_rate, multiple
			FROM valuation_settings WHERE project_id = $1`, projectID).
			Scan(&settings.ProjectID, &settings.Method, &settings.CapRate, &settings.Multiple)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No valuation settings saved for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		val, ret, err := services.RunValuation(services.ValuationInput{
			Annuals:  annuals,
			Debt:     debt,
			Terms:    terms,
			Settings: settings,
		})
		if err != nil {
			respondCalcError(c, err)
			return
		}

		val.ProjectID = projectID
		ret.ProjectID = projectID

		if err := storage.SaveValuation(gdb, &val, &ret); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := storage.AdvanceWorkflowState(db, projectID, models.StateFinalized, repository.StageRank); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Valuation finalized",
			"workflow_state": models.StateFinalized,
			"valuation":      val,
			"returns":        ret,
		})
	}
}

// GetValuationHandler godoc
// @Summary      Get valuation and returns
// @Tags         valuation
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/valuation [get]
func GetValuationHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		val, ret, err := storage.GetValuation(gdb, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No valuation for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valuation": val,
			"returns":   ret,
		})
	}
}
