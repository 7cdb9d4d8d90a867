package handlers

import (
	"backend/models"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Per-project configuration blocks: financing terms, valuation settings,
// operator contract and non-operating assumptions. All four are upserts
// keyed by project_id, so the wizard can save them in any order and as
// often as it likes.

func projectIDParam(c *gin.Context) (int, bool) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return 0, false
	}
	return projectID, true
}

func requireSession(db *sql.DB, c *gin.Context) bool {
	sessionID := c.GetHeader("Authorization")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session-id header is required"})
		return false
	}
	if _, _, err := GetSessionDetails(db, sessionID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
		return false
	}
	return true
}

// SaveFinancingTerms godoc
// @Summary      Save financing terms
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Project ID"
// @Param        body  body      models.FinancingTerms  true  "Financing terms"
// @Success      200   {object}  models.FinancingTerms
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/financing [put]
func SaveFinancingTerms(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var terms models.FinancingTerms
		if err := c.ShouldBindJSON(&terms); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if terms.Ltv < 0 || terms.Ltv >= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ltv must be in [0,1)"})
			return
		}
		if terms.PurchasePrice < 0 || terms.Capex < 0 || terms.InterestRate < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amounts and rates must be non-negative"})
			return
		}
		if terms.TermYears < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "term_years must be non-negative"})
			return
		}
		terms.ProjectID = projectID

		_, err := db.Exec(`
			INSERT INTO financing_terms (project_id, purchase_price, capex, ltv, interest_rate, term_years, buy_cost_pct, sell_cost_pct)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (project_id) DO UPDATE
			SET purchase_price = EXCLUDED.purchase_price, capex = EXCLUDED.capex, ltv = EXCLUDED.ltv,
			    interest_rate = EXCLUDED.interest_rate, term_years = EXCLUDED.term_years,
			    buy_cost_pct = EXCLUDED.buy_cost_pct, sell_cost_pct = EXCLUDED.sell_cost_pct`,
			terms.ProjectID, terms.PurchasePrice, terms.Capex, terms.Ltv, terms.InterestRate,
			terms.TermYears, terms.BuyCostPct, terms.SellCostPct)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, terms)
	}
}

// GetFinancingTerms godoc
// @Summary      Get financing terms
// @Tags         settings
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.FinancingTerms
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/financing [get]
func GetFinancingTerms(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var terms models.FinancingTerms
		err := db.QueryRow(`
			SELECT project_id, purchase_price, capex, ltv, interest_rate, term_years, buy_cost_pct, sell_cost_pct
			FROM financing_terms WHERE project_id = $1`, projectID).
			Scan(&terms.ProjectID, &terms.PurchasePrice, &terms.Capex, &terms.Ltv,
				&terms.InterestRate, &terms.TermYears, &terms.BuyCostPct, &terms.SellCostPct)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "No financing terms for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, terms)
	}
}

// SaveValuationSettings godoc
// @Summary      Save valuation settings
// @Description  Select the exit valuation method (cap_rate or multiple) and its parameter.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Project ID"
// @Param        body  body      models.ValuationSettings  true  "Valuation settings"
// @Success      200   {object}  models.ValuationSettings
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/valuation-settings [put]
func SaveValuationSettings(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var settings models.ValuationSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if settings.Method != models.ValuationCapRate && settings.Method != models.ValuationMultiple {
			c.JSON(http.StatusBadRequest, gin.H{"error": "method must be cap_rate or multiple"})
			return
		}
		settings.ProjectID = projectID

		_, err := db.Exec(`
			INSERT INTO valuation_settings (project_id, method, cap_rate, multiple)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (project_id) DO UPDATE
			SET method = EXCLUDED.method, cap_rate = EXCLUDED.cap_rate, multiple = EXCLUDED.multiple`,
			settings.ProjectID, settings.Method, settings.CapRate, settings.Multiple)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// GetValuationSettings godoc
// @Summary      Get valuation settings
// @Tags         settings
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.ValuationSettings
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/valuation-settings [get]
func GetValuationSettings(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var settings models.ValuationSettings
		err := db.QueryRow(`
			SELECT project_id, method, cap_rate, multiple
			FROM valuation_settings WHERE project_id = $1`, projectID).
			Scan(&settings.ProjectID, &settings.Method, &settings.CapRate, &settings.Multiple)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "No valuation settings for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// SaveOperatorContract godoc
// @Summary      Save operator contract
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Project ID"
// @Param        body  body      models.OperatorContract  true  "Operator contract"
// @Success      200   {object}  models.OperatorContract
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/contract [put]
func SaveOperatorContract(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var contract models.OperatorContract
		if err := c.ShouldBindJSON(&contract); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if contract.BaseFee < 0 || contract.PctOfRevenue < 0 || contract.PctOfGop < 0 ||
			contract.IncentivePct < 0 || contract.HurdleGopMargin < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contract parameters must be non-negative"})
			return
		}
		contract.ProjectID = projectID

		_, err := db.Exec(`
			INSERT INTO operator_contract (project_id, managed, base_fee, pct_of_revenue, pct_of_gop, incentive_pct, hurdle_gop_margin)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (project_id) DO UPDATE
			SET managed = EXCLUDED.managed, base_fee = EXCLUDED.base_fee, pct_of_revenue = EXCLUDED.pct_of_revenue,
			    pct_of_gop = EXCLUDED.pct_of_gop, incentive_pct = EXCLUDED.incentive_pct,
			    hurdle_gop_margin = EXCLUDED.hurdle_gop_margin`,
			contract.ProjectID, contract.Managed, contract.BaseFee, contract.PctOfRevenue,
			contract.PctOfGop, contract.IncentivePct, contract.HurdleGopMargin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, contract)
	}
}

// GetOperatorContract godoc
// @Summary      Get operator contract
// @Tags         settings
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.OperatorContract
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/contract [get]
func GetOperatorContract(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var contract models.OperatorContract
		err := db.QueryRow(`
			SELECT project_id, managed, base_fee, pct_of_revenue, pct_of_gop, incentive_pct, hurdle_gop_margin
			FROM operator_contract WHERE project_id = $1`, projectID).
			Scan(&contract.ProjectID, &contract.Managed, &contract.BaseFee, &contract.PctOfRevenue,
				&contract.PctOfGop, &contract.IncentivePct, &contract.HurdleGopMargin)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "No operator contract for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, contract)
	}
}

// SaveNonOperating godoc
// @Summary      Save non-operating assumptions
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id    path      int                             true  "Project ID"
// @Param        body  body      models.NonOperatingAssumptions  true  "Annual non-operating lines"
// @Success      200   {object}  models.NonOperatingAssumptions
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/non-operating [put]
func SaveNonOperating(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var nonOp models.NonOperatingAssumptions
		if err := c.ShouldBindJSON(&nonOp); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if nonOp.PropertyTax < 0 || nonOp.Insurance < 0 || nonOp.Rent < 0 || nonOp.Other < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "non-operating lines must be non-negative"})
			return
		}
		nonOp.ProjectID = projectID

		_, err := db.Exec(`
			INSERT INTO non_operating (project_id, property_tax, insurance, rent, other)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (project_id) DO UPDATE
			SET property_tax = EXCLUDED.property_tax, insurance = EXCLUDED.insurance,
			    rent = EXCLUDED.rent, other = EXCLUDED.other`,
			nonOp.ProjectID, nonOp.PropertyTax, nonOp.Insurance, nonOp.Rent, nonOp.Other)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, nonOp)
	}
}

// GetNonOperating godoc
// @Summary      Get non-operating assumptions
// @Tags         settings
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.NonOperatingAssumptions
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/non-operating [get]
func GetNonOperating(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireSession(db, c) {
			return
		}
		projectID, ok := projectIDParam(c)
		if !ok {
			return
		}

		var nonOp models.NonOperatingAssumptions
		err := db.QueryRow(`
			SELECT project_id, property_tax, insurance, rent, other
			FROM non_operating WHERE project_id = $1`, projectID).
			Scan(&nonOp.ProjectID, &nonOp.PropertyTax, &nonOp.Insurance, &nonOp.Rent, &nonOp.Other)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "No non-operating assumptions for this project"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, nonOp)
	}
}
