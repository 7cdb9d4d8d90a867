package storage

import (
	"backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persistence of computed results. Every writer here replaces or upserts the
// complete result set of a computation stage in one transaction; callers run
// the full calculation first and only then persist, so a failed computation
// never leaves partial rows behind.

// ReplaceMonthlyUsali swaps out all twelve computed monthly rows of a project.
func ReplaceMonthlyUsali(gdb *gorm.DB, projectID int, rows []models.MonthlyUsali) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.MonthlyUsali{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// GetMonthlyUsali returns the computed monthly rows of a project in month order.
func GetMonthlyUsali(gdb *gorm.DB, projectID int) ([]models.MonthlyUsali, error) {
	var rows []models.MonthlyUsali
	err := gdb.Where("project_id = ?", projectID).Order("month").Find(&rows).Error
	return rows, err
}

// UpsertAnnualUsali inserts or replaces one annual row keyed by (project, year).
func UpsertAnnualUsali(gdb *gorm.DB, row *models.AnnualUsali) error {
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "year"}},
		UpdateAll: true,
	}).Create(row).Error
}

// UpsertAnnualYears replaces the projected annual rows (years >= 2) and drops
// rows beyond the new horizon so a shorter re-run does not leave stale tail
// years behind.
func UpsertAnnualYears(gdb *gorm.DB, projectID int, rows []models.AnnualUsali, horizon int) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND year > ?", projectID, horizon).
			Delete(&models.AnnualUsali{}).Error; err != nil {
			return err
		}
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "project_id"}, {Name: "year"}},
				UpdateAll: true,
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAnnualSeries returns all annual rows of a project ordered by year.
func GetAnnualSeries(gdb *gorm.DB, projectID int) ([]models.AnnualUsali, error) {
	var rows []models.AnnualUsali
	err := gdb.Where("project_id = ?", projectID).Order("year").Find(&rows).Error
	return rows, err
}

// GetAnnualYear returns a single annual row, gorm.ErrRecordNotFound if absent.
func GetAnnualYear(gdb *gorm.DB, projectID, year int) (*models.AnnualUsali, error) {
	var row models.AnnualUsali
	if err := gdb.Where("project_id = ? AND year = ?", projectID, year).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplaceDebtSchedule swaps out the full amortization schedule of a project.
func ReplaceDebtSchedule(gdb *gorm.DB, projectID int, rows []models.DebtScheduleRow) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.DebtScheduleRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// GetDebtSchedule returns the schedule rows of a project in year order.
func GetDebtSchedule(gdb *gorm.DB, projectID int) ([]models.DebtScheduleRow, error) {
	var rows []models.DebtScheduleRow
	err := gdb.Where("project_id = ?", projectID).Order("year").Find(&rows).Error
	return rows, err
}

// SaveProjectionAssumptions upserts the assumptions used for the latest run.
func SaveProjectionAssumptions(gdb *gorm.DB, row *models.ProjectionAssumptions) error {
	return gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		UpdateAll: true,
	}).Create(row).Error
}

// GetProjectionAssumptions returns the persisted assumptions of a project.
func GetProjectionAssumptions(gdb *gorm.DB, projectID int) (*models.ProjectionAssumptions, error) {
	var row models.ProjectionAssumptions
	if err := gdb.Where("project_id = ?", projectID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveValuation upserts the valuation and returns rows of a project together.
func SaveValuation(gdb *gorm.DB, val *models.ValuationResult, ret *models.ReturnsResult) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			UpdateAll: true,
		}).Create(val).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			UpdateAll: true,
		}).Create(ret).Error
	})
}

// GetValuation returns the persisted valuation and returns rows.
func GetValuation(gdb *gorm.DB, projectID int) (*models.ValuationResult, *models.ReturnsResult, error) {
	var val models.ValuationResult
	if err := gdb.Where("project_id = ?", projectID).First(&val).Error; err != nil {
		return nil, nil, err
	}
	var ret models.ReturnsResult
	if err := gdb.Where("project_id = ?", projectID).First(&ret).Error; err != nil {
		return nil, nil, err
	}
	return &val, &ret, nil
}
