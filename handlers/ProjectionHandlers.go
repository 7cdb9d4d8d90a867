package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RunProjection godoc
// @Summary      Run multi-year projection
// @Description  Roll the saved Year-1 statement forward to the requested horizon. Year 1 stays untouched; years 2..N are replaced. Advances the workflow to projected.
// @Tags         projection
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "Project ID"
// @Param        body  body      models.ProjectionAssumptions  true  "Projection assumptions"
// @Success      200   {array}   models.AnnualUsali
// @Failure      400   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/projection/run [post]
func RunProjection(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		if repository.StageRank(project.WorkflowState) < repository.StageRank(models.StateUsaliCalculated) {
			c.JSON(http.StatusConflict, gin.H{"error": "Year-1 USALI statement has not been calculated yet"})
			return
		}

		var assumptions models.ProjectionAssumptions
		if err := c.ShouldBindJSON(&assumptions); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if assumptions.HorizonYears < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "horizon_years must be at least 1"})
			return
		}
		assumptions.ProjectID = projectID

		yearOne, err := storage.GetAnnualYear(gdb, projectID, 1)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondCalcError(c, services.ErrYearOneNotSaved)
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

		projected, err := services.ProjectYears(services.ProjectionInput{
			Rooms:        project.Rooms,
			GopAdjusted:  project.GopAdjusted,
			FfePct:       project.FfePct,
			YearOne:      *yearOne,
			Assumptions:  assumptions,
			Contract:     contract,
			NonOperating: nonOp,
		})
		if err != nil {
			respondCalcError(c, err)
			return
		}

		for i := range projected {
			projected[i].ProjectID = projectID
		}

		if err := storage.SaveProjectionAssumptions(gdb, &assumptions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := storage.UpsertAnnualYears(gdb, projectID, projected, assumptions.HorizonYears); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if err := storage.AdvanceWorkflowState(db, projectID, models.StateProjected, repository.StageRank); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		series, err := storage.GetAnnualSeries(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, series)
	}
}

// GetProjectionAssumptionsHandler godoc
// @Summary      Get projection assumptions
// @Description  Return the assumptions used by the latest projection run.
// @Tags         projection
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.ProjectionAssumptions
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/projection [get]
func GetProjectionAssumptionsHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		assumptions, err := storage.GetProjectionAssumptions(gdb, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No projection has been run for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, assumptions)
	}
}

// GetAnnualSeriesHandler godoc
// @Summary      Get annual series
// @Description  Return all annual USALI rows of a project, Year 1 first.
// @Tags         projection
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.AnnualUsali
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/annuals [get]
func GetAnnualSeriesHandler(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		series, err := storage.GetAnnualSeries(gdb, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(series) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No annual rows for this project"})
			return
		}
		c.JSON(http.StatusOK, series)
	}
}

// OverrideAnnualYear godoc
// @Summary      Override a projected year
// @Description  Replace one projected annual row with analyst-supplied figures. The row is marked overridden and feeds the valuation as-is. Year 1 cannot be overridden; recalculate it from commercial input instead.
// @Tags         projection
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Project ID"
// @Param        year  path      int                 true  "Projection year (2..N)"
// @Param        body  body      models.AnnualUsali  true  "Annual row"
// @Success      200   {object}  models.AnnualUsali
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/annuals/{year} [put]
func OverrideAnnualYear(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a projection year (2 or later)"})
			return
		}

		existing, err := storage.GetAnnualYear(gdb, projectID, year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No projected row for this year; run the projection first"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var row models.AnnualUsali
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		row.ID = existing.ID
		row.ProjectID = projectID
		row.Year = year
		row.Overridden = true

		if err := storage.UpsertAnnualUsali(gdb, &row); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}
