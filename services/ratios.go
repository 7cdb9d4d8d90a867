package services

import (
	"math"

	"backend/models"
)

// SizeBucket maps a room count to its benchmark size bucket. The partition is
// fixed and total: every non-negative count lands in a bucket.
func SizeBucket(roomCount int) string {
	switch {
	case roomCount <= 50:
		return "S1"
	case roomCount <= 100:
		return "S2"
	case roomCount <= 150:
		return "S3"
	case roomCount <= 250:
		return "S4"
	case roomCount <= 400:
		return "S5"
	default:
		return "S6"
	}
}

// ValidateRatios checks a benchmark row before it feeds any computation.
// The revenue back-solve divides by (1 - other - misc), so that sum must stay
// strictly below 1.
func ValidateRatios(r models.HotelRatios) error {
	fields := map[string]float64{
		"fb_to_rooms":       r.FbToRooms,
		"other_to_total":    r.OtherToTotal,
		"misc_to_total":     r.MiscToTotal,
		"rooms_dept_pct":    r.RoomsDeptPct,
		"rooms_dept_per_rn": r.RoomsDeptPerRN,
		"food_cost_pct":     r.FoodCostPct,
		"fb_labor_pct":      r.FbLaborPct,
		"fb_other_pct":      r.FbOtherPct,
		"other_dept_pct":    r.OtherDeptPct,
		"admin_pct":         r.AdminPct,
		"it_pct":            r.ItPct,
		"sales_pct":         r.SalesPct,
		"maintenance_pct":   r.MaintenancePct,
		"energy_pct":        r.EnergyPct,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return preconditionf("ratio field %s is not a number", name)
		}
		if v < 0 {
			return preconditionf("ratio field %s is negative", name)
		}
	}
	if r.OtherToTotal+r.MiscToTotal >= 1 {
		return preconditionf("other_to_total + misc_to_total must be below 1, got %.4f",
			r.OtherToTotal+r.MiscToTotal)
	}
	return nil
}
