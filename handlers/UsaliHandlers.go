package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadCommercialMonths pulls the saved Year-1 commercial rows in month order.
func loadCommercialMonths(db *sql.DB, projectID int) ([]models.MonthlyCommercial, error) {
	rows, err := db.Query(`
		SELECT id, project_id, month, days_open, occupancy, adr, roomnights, rooms_revenue
		FROM monthly_commercial WHERE project_id = $1 ORDER BY month`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []models.MonthlyCommercial
	for rows.Next() {
		var m models.MonthlyCommercial
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Month, &m.DaysOpen, &m.Occupancy,
			&m.ADR, &m.Roomnights, &m.RoomsRevenue); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// loadOperatorContract returns the saved contract or an unmanaged default.
func loadOperatorContract(db *sql.DB, projectID int) (models.OperatorContract, error) {
	var contract models.OperatorContract
	err := db.QueryRow(`
		SELECT project_id, managed, base_fee, pct_of_revenue, pct_of_gop, incentive_pct, hurdle_gop_margin
		FROM operator_contract WHERE project_id = $1`, projectID).
		Scan(&contract.ProjectID, &contract.Managed, &contract.BaseFee, &contract.PctOfRevenue,
			&contract.PctOfGop, &contract.IncentivePct, &contract.HurdleGopMargin)
	if err == sql.ErrNoRows {
		return models.OperatorContract{ProjectID: projectID}, nil
	}
	return contract, err
}

// loadNonOperating returns the saved assumptions or all-zero lines.
func loadNonOperating(db *sql.DB, projectID int) (models.NonOperatingAssumptions, error) {
	var nonOp models.NonOperatingAssumptions
	err := db.QueryRow(`
		SELECT project_id, property_tax, insurance, rent, other
		FROM non_operating WHERE project_id = $1`, projectID).
		Scan(&nonOp.ProjectID, &nonOp.PropertyTax, &nonOp.Insurance, &nonOp.Rent, &nonOp.Other)
	if err == sql.ErrNoRows {
		return models.NonOperatingAssumptions{ProjectID: projectID}, nil
	}
	return nonOp, err
}

// CalculateUsali godoc
// @Summary      Calculate Year-1 USALI statement
// @Description  Build the twelve monthly USALI rows and the Year-1 annual roll-up from the accepted commercial input and the resolved benchmark ratios, then persist them. Advances the workflow to usali-calculated.
// @Tags         usali
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/usali/calculate [post]
func CalculateUsali(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		if repository.StageRank(project.WorkflowState) < repository.StageRank(models.StateCommercialAccepted) {
			c.JSON(http.StatusConflict, gin.H{"error": "Commercial input has not been accepted yet"})
			return
		}

		months, err := loadCommercialMonths(db, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		bucket := services.SizeBucket(project.Rooms)
		ratios, err := storage.GetRatioRow(db, project.Segment, project.Category, bucket)
		if err != nil {
			if err == sql.ErrNoRows {
				respondCalcError(c, services.ErrRatiosNotFound)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		contract, err := loadOperatorContract(db, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		nonOp, err := loadNonOperating(db, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		monthly, annual, err := services.BuildYearOne(services.YearOneInput{
			Rooms:        project.Rooms,
			GopAdjusted:  project.GopAdjusted,
			FfePct:       project.FfePct,
			Months:       months,
			Ratios:       *ratios,
			Contract:     contract,
			NonOperating: nonOp,
		})
		if err != nil {
			respondCalcError(c, err)
			return
		}

		for i := range monthly {
			monthly[i].ProjectID = projectID
		}
		annual.ProjectID = projectID
		annual.Year = 1

		if err := storage.ReplaceMonthlyUsali(gdb, projectID, monthly); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := storage.UpsertAnnualUsali(gdb, &annual); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := storage.AdvanceWorkflowState(db, projectID, models.StateUsaliCalculated, repository.StageRank); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":        "Year-1 USALI statement calculated",
			"workflow_state": models.StateUsaliCalculated,
			"monthly":        monthly,
			"annual":         annual,
		})
	}
}

// GetUsali godoc
// @Summary      Get Year-1 USALI statement
// @Tags         usali
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/usali [get]
func GetUsali(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		monthly, err := storage.GetMonthlyUsali(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(monthly) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No USALI statement for this project"})
			return
		}

		annual, err := storage.GetAnnualYear(gdb, projectID, 1)
		if err != nil {
			respondCalcError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"monthly": monthly,
			"annual":  annual,
		})
	}
}
