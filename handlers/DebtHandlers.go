package handlers

import (
	"backend/models"
	"backend/services"
	"backend/storage"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadFinancingTerms returns the saved terms; sql.ErrNoRows propagates so
// the caller can report a missing configuration.
func loadFinancingTerms(db *sql.DB, projectID int) (models.FinancingTerms, error) {
	var terms models.FinancingTerms
	err := db.QueryRow(`
		SELECT project_id, purchase_price, capex, ltv, interest_rate, term_years, buy_cost_pct, sell_cost_pct
		FROM financing_terms WHERE project_id = $1`, projectID).
		Scan(&terms.ProjectID, &terms.PurchasePrice, &terms.Capex, &terms.Ltv,
			&terms.InterestRate, &terms.TermYears, &terms.BuyCostPct, &terms.SellCostPct)
	return terms, err
}

// BuildDebtScheduleHandler godoc
// @Summary      Build debt schedule
// @Description  Derive the loan principal from the financing terms and build the full amortization schedule for the project's amortization type. Replaces any previous schedule.
// @Tags         debt
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.DebtScheduleRow
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/debt/build [post]
func BuildDebtScheduleHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		terms, err := loadFinancingTerms(db, projectID)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No financing terms saved for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		principal := (terms.PurchasePrice + terms.Capex) * terms.Ltv
		schedule := services.BuildDebtSchedule(project.AmortizationType, principal, terms.InterestRate, terms.TermYears)

		for i := range schedule {
			schedule[i].ProjectID = projectID
		}

		if err := storage.ReplaceDebtSchedule(gdb, projectID, schedule); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, schedule)
	}
}

// GetDebtScheduleHandler godoc
// @Summary      Get debt schedule
// @Tags         debt
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.DebtScheduleRow
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/debt [get]
func GetDebtScheduleHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		schedule, err := storage.GetDebtSchedule(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(schedule) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No debt schedule for this project"})
			return
		}
		c.JSON(http.StatusOK, schedule)
	}
}
