package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportCommercialExcel godoc
// @Summary      Import Year-1 commercial input from Excel
// @Description  Upload an .xlsx file with columns Month, DaysOpen, Occupancy, ADR (header row required, twelve data rows). Replaces the saved commercial input.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Project ID"
// @Param        file  formData  file  true  "Commercial input workbook"
// @Success      200   {array}   models.MonthlyCommercial
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/projects/{id}/commercial/import [post]
func ImportCommercialExcel(db *sql.DB) gin.HandlerFunc {
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

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer src.Close()

		f, err := excelize.OpenReader(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Excel file", "details": err.Error()})
			return
		}
		defer f.Close()

		sheet := f.GetSheetName(0)
		rows, err := f.GetRows(sheet)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read sheet", "details": err.Error()})
			return
		}
		if len(rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sheet has no data rows"})
			return
		}

		var months []models.MonthlyCommercial
		for i, row := range rows[1:] {
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			if len(row) < 4 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: expected 4 columns (Month, DaysOpen, Occupancy, ADR)", i+2)})
				return
			}

			month, err := strconv.Atoi(strings.TrimSpace(row[0]))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: invalid month %q", i+2, row[0])})
				return
			}
			daysOpen, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: invalid days_open %q", i+2, row[1])})
				return
			}
			occupancy, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(row[2]), ",", ".", 1), 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: invalid occupancy %q", i+2, row[2])})
				return
			}
			adr, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(row[3]), ",", ".", 1), 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: invalid adr %q", i+2, row[3])})
				return
			}

			months = append(months, models.MonthlyCommercial{
				ProjectID: projectID,
				Month:     month,
				DaysOpen:  daysOpen,
				Occupancy: occupancy,
				ADR:       adr,
			})
		}

		if len(months) != 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("expected 12 data rows, got %d", len(months))})
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

// annualExportLines maps workbook row labels to the field they print.
var annualExportLines = []struct {
	Label string
	Value func(a models.AnnualUsali) float64
	Pct   bool
}{
	{"Occupancy", func(a models.AnnualUsali) float64 { return a.Occupancy }, true},
	{"ADR", func(a models.AnnualUsali) float64 { return a.ADR }, false},
	{"Roomnights", func(a models.AnnualUsali) float64 { return float64(a.Roomnights) }, false},
	{"Rooms Revenue", func(a models.AnnualUsali) float64 { return a.RoomsRevenue }, false},
	{"F&B Revenue", func(a models.AnnualUsali) float64 { return a.FbRevenue }, false},
	{"Other Revenue", func(a models.AnnualUsali) float64 { return a.OtherRevenue }, false},
	{"Misc Revenue", func(a models.AnnualUsali) float64 { return a.MiscRevenue }, false},
	{"Total Revenue", func(a models.AnnualUsali) float64 { return a.TotalRevenue }, false},
	{"Rooms Dept Cost", func(a models.AnnualUsali) float64 { return a.RoomsDeptCost }, false},
	{"F&B Dept Cost", func(a models.AnnualUsali) float64 { return a.FbDeptCost }, false},
	{"Other Dept Cost", func(a models.AnnualUsali) float64 { return a.OtherDeptCost }, false},
	{"Departmental Profit", func(a models.AnnualUsali) float64 { return a.DeptProfit }, false},
	{"Undistributed Expenses", func(a models.AnnualUsali) float64 { return a.UndistributedTotal }, false},
	{"GOP", func(a models.AnnualUsali) float64 { return a.Gop }, false},
	{"GOP Margin", func(a models.AnnualUsali) float64 { return a.GopMargin }, true},
	{"Management Fees", func(a models.AnnualUsali) float64 { return a.FeesTotal }, false},
	{"Non-Operating", func(a models.AnnualUsali) float64 { return a.NonOperating }, false},
	{"EBITDA", func(a models.AnnualUsali) float64 { return a.Ebitda }, false},
	{"FF&E Reserve", func(a models.AnnualUsali) float64 { return a.FfeReserve }, false},
	{"EBITDA less FF&E", func(a models.AnnualUsali) float64 { return a.EbitdaLessFfe }, false},
}

// ExportScreeningWorkbook godoc
// @Summary      Export screening workbook
// @Description  Download an .xlsx workbook with the annual P&L series, the debt schedule and the valuation summary of a project.
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  int  true  "Project ID"
// @Success      200  {file}    file  "Workbook"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{id}/export [get]
func ExportScreeningWorkbook(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		ctx, cancel := utils.GetSlowQueryContext(c.Request.Context())
		defer cancel()
		gctx := gdb.WithContext(ctx)

		annuals, err := storage.GetAnnualSeries(gctx, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(annuals) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No computed rows to export; calculate the USALI statement first"})
			return
		}

		debt, err := storage.GetDebtSchedule(gctx, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Printf("Failed to close workbook: %v\n", err)
			}
		}()

		// Summary sheet
		summarySheet := "Summary"
		index, err := f.NewSheet(summarySheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating summary sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		f.SetCellValue(summarySheet, "A1", "Hotel Screening Export")
		f.SetCellValue(summarySheet, "A2", "Project")
		f.SetCellValue(summarySheet, "B2", project.Name)
		f.SetCellValue(summarySheet, "A3", "Code")
		f.SetCellValue(summarySheet, "B3", project.Code)
		f.SetCellValue(summarySheet, "A4", "Rooms")
		f.SetCellValue(summarySheet, "B4", project.Rooms)
		f.SetCellValue(summarySheet, "A5", "Currency")
		f.SetCellValue(summarySheet, "B5", project.Currency)
		f.SetCellValue(summarySheet, "A6", "Workflow State")
		f.SetCellValue(summarySheet, "B6", project.WorkflowState)

		if val, ret, err := storage.GetValuation(gctx, projectID); err == nil {
			f.SetCellValue(summarySheet, "A8", "Valuation")
			f.SetCellValue(summarySheet, "A9", "Stabilized NOI")
			f.SetCellValue(summarySheet, "B9", utils.FormatAmount(val.StabilizedNoi))
			f.SetCellValue(summarySheet, "A10", "Gross Exit Value")
			f.SetCellValue(summarySheet, "B10", utils.FormatAmount(val.GrossExitValue))
			f.SetCellValue(summarySheet, "A11", "Net Exit Value")
			f.SetCellValue(summarySheet, "B11", utils.FormatAmount(val.NetExitValue))
			f.SetCellValue(summarySheet, "A12", "Implied Purchase Price")
			f.SetCellValue(summarySheet, "B12", utils.FormatAmount(val.ImpliedPurchasePrice))
			f.SetCellValue(summarySheet, "A13", "Equity at Close")
			f.SetCellValue(summarySheet, "B13", utils.FormatAmount(ret.Equity0))
			f.SetCellValue(summarySheet, "A14", "Unlevered IRR")
			if ret.UnleveredIrr != nil {
				f.SetCellValue(summarySheet, "B14", utils.FormatPct(*ret.UnleveredIrr))
			} else {
				f.SetCellValue(summarySheet, "B14", "N/A")
			}
			f.SetCellValue(summarySheet, "A15", "Levered IRR")
			if ret.LeveredIrr != nil {
				f.SetCellValue(summarySheet, "B15", utils.FormatPct(*ret.LeveredIrr))
			} else {
				f.SetCellValue(summarySheet, "B15", "N/A")
			}
			f.SetCellValue(summarySheet, "A16", "Unlevered MOIC")
			f.SetCellValue(summarySheet, "B16", fmt.Sprintf("%.2fx", ret.UnleveredMoic))
			f.SetCellValue(summarySheet, "A17", "Levered MOIC")
			f.SetCellValue(summarySheet, "B17", fmt.Sprintf("%.2fx", ret.LeveredMoic))
		}

		// Annual P&L sheet: line items down, years across.
		plSheet := "Annual P&L"
		if _, err := f.NewSheet(plSheet); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating P&L sheet"})
			return
		}
		f.SetCellValue(plSheet, "A1", "Line")
		for col, a := range annuals {
			cell, _ := excelize.CoordinatesToCellName(col+2, 1)
			header := fmt.Sprintf("Year %d", a.Year)
			if a.Overridden {
				header += " *"
			}
			f.SetCellValue(plSheet, cell, header)
		}
		for rowIdx, line := range annualExportLines {
			labelCell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
			f.SetCellValue(plSheet, labelCell, line.Label)
			for col, a := range annuals {
				cell, _ := excelize.CoordinatesToCellName(col+2, rowIdx+2)
				f.SetCellValue(plSheet, cell, line.Value(a))
			}
		}

		// Debt schedule sheet
		if len(debt) > 0 {
			debtSheet := "Debt Schedule"
			if _, err := f.NewSheet(debtSheet); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating debt sheet"})
				return
			}
			headers := []string{"Year", "Interest", "Principal", "Payment", "Ending Balance"}
			for col, h := range headers {
				cell, _ := excelize.CoordinatesToCellName(col+1, 1)
				f.SetCellValue(debtSheet, cell, h)
			}
			for rowIdx, d := range debt {
				f.SetCellValue(debtSheet, fmt.Sprintf("A%d", rowIdx+2), d.Year)
				f.SetCellValue(debtSheet, fmt.Sprintf("B%d", rowIdx+2), d.Interest)
				f.SetCellValue(debtSheet, fmt.Sprintf("C%d", rowIdx+2), d.PrincipalPaid)
				f.SetCellValue(debtSheet, fmt.Sprintf("D%d", rowIdx+2), d.TotalPayment)
				f.SetCellValue(debtSheet, fmt.Sprintf("E%d", rowIdx+2), d.EndingBalance)
			}
		}

		filename := fmt.Sprintf("screening_%s.xlsx", strings.ReplaceAll(project.Code, "/", "-"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment;filename="+filename)

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing workbook"})
			return
		}
	}
}
