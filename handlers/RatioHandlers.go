package handlers

import (
	"backend/models"
	"backend/services"
	"backend/storage"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateRatioRow godoc
// @Summary      Create benchmark ratio row
// @Description  Insert a benchmark row keyed by segment, category and size bucket. The row is validated before insert; later rows with the same key shadow earlier ones.
// @Tags         ratios
// @Accept       json
// @Produce      json
// @Param        body  body      models.HotelRatios  true  "Benchmark row"
// @Success      201   {object}  models.HotelRatios
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/ratios [post]
func CreateRatioRow(db *sql.DB) gin.HandlerFunc {
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

		var r models.HotelRatios
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if r.Segment == "" || r.Category == "" || r.SizeBucket == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "segment, category and size_bucket are required"})
			return
		}
		if err := services.ValidateRatios(r); err != nil {
			respondCalcError(c, err)
			return
		}

		query := `
			INSERT INTO hotel_ratios (segment, category, size_bucket, fb_to_rooms, other_to_total, misc_to_total,
			                          rooms_dept_pct, rooms_dept_per_rn, food_cost_pct, fb_labor_pct, fb_other_pct,
			                          other_dept_pct, admin_pct, it_pct, sales_pct, maintenance_pct, energy_pct, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
			RETURNING id, updated_at`
		err := db.QueryRow(query, r.Segment, r.Category, r.SizeBucket, r.FbToRooms, r.OtherToTotal, r.MiscToTotal,
			r.RoomsDeptPct, r.RoomsDeptPerRN, r.FoodCostPct, r.FbLaborPct, r.FbOtherPct,
			r.OtherDeptPct, r.AdminPct, r.ItPct, r.SalesPct, r.MaintenancePct, r.EnergyPct).
			Scan(&r.ID, &r.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, r)
	}
}

// GetRatioRows godoc
// @Summary      List benchmark ratio rows
// @Tags         ratios
// @Success      200  {array}   models.HotelRatios
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/ratios [get]
func GetRatioRows(db *sql.DB) gin.HandlerFunc {
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

		rows, err := db.Query(`
			SELECT id, segment, category, size_bucket, fb_to_rooms, other_to_total, misc_to_total,
			       rooms_dept_pct, rooms_dept_per_rn, food_cost_pct, fb_labor_pct, fb_other_pct,
			       other_dept_pct, admin_pct, it_pct, sales_pct, maintenance_pct, energy_pct, updated_at
			FROM hotel_ratios ORDER BY segment, category, size_bucket, updated_at DESC`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		var ratios []models.HotelRatios
		for rows.Next() {
			var r models.HotelRatios
			if err := rows.Scan(&r.ID, &r.Segment, &r.Category, &r.SizeBucket, &r.FbToRooms, &r.OtherToTotal,
				&r.MiscToTotal, &r.RoomsDeptPct, &r.RoomsDeptPerRN, &r.FoodCostPct, &r.FbLaborPct,
				&r.FbOtherPct, &r.OtherDeptPct, &r.AdminPct, &r.ItPct, &r.SalesPct,
				&r.MaintenancePct, &r.EnergyPct, &r.UpdatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ratios = append(ratios, r)
		}
		c.JSON(http.StatusOK, ratios)
	}
}

// UpdateRatioRow godoc
// @Summary      Update benchmark ratio row
// @Tags         ratios
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Ratio row ID"
// @Param        body  body      models.HotelRatios  true  "Benchmark row"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/ratios/{id} [put]
func UpdateRatioRow(db *sql.DB) gin.HandlerFunc {
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

		id := c.Param("id")
		var r models.HotelRatios
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := services.ValidateRatios(r); err != nil {
			respondCalcError(c, err)
			return
		}

		_, err := db.Exec(`
			UPDATE hotel_ratios
			SET fb_to_rooms=$1, other_to_total=$2, misc_to_total=$3, rooms_dept_pct=$4, rooms_dept_per_rn=$5,
			    food_cost_pct=$6, fb_labor_pct=$7, fb_other_pct=$8, other_dept_pct=$9, admin_pct=$10,
			    it_pct=$11, sales_pct=$12, maintenance_pct=$13, energy_pct=$14, updated_at=NOW()
			WHERE id=$15`,
			r.FbToRooms, r.OtherToTotal, r.MiscToTotal, r.RoomsDeptPct, r.RoomsDeptPerRN,
			r.FoodCostPct, r.FbLaborPct, r.FbOtherPct, r.OtherDeptPct, r.AdminPct,
			r.ItPct, r.SalesPct, r.MaintenancePct, r.EnergyPct, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Ratio row updated"})
	}
}

// DeleteRatioRow godoc
// @Summary      Delete benchmark ratio row
// @Tags         ratios
// @Param        id   path      int  true  "Ratio row ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/ratios/{id} [delete]
func DeleteRatioRow(db *sql.DB) gin.HandlerFunc {
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

		id := c.Param("id")
		if _, err := db.Exec("DELETE FROM hotel_ratios WHERE id=$1", id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Ratio row deleted"})
	}
}

// ResolveRatioRow godoc
// @Summary      Resolve benchmark for a project
// @Description  Return the benchmark row a project would use, derived from its segment, category and room-count size bucket.
// @Tags         ratios
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.HotelRatios
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/ratios [get]
func ResolveRatioRow(db *sql.DB) gin.HandlerFunc {
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

		c.JSON(http.StatusOK, gin.H{
			"size_bucket": bucket,
			"ratios":      ratios,
		})
	}
}
