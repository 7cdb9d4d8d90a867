package services

import (
	"errors"
	"math"
	"testing"

	"backend/models"
)

func referenceRatios() models.HotelRatios {
	return models.HotelRatios{
		Segment:        "upscale",
		Category:       "urban",
		SizeBucket:     "S2",
		FbToRooms:      0.30,
		OtherToTotal:   0.05,
		MiscToTotal:    0.02,
		RoomsDeptPct:   0.24,
		FoodCostPct:    0.28,
		FbLaborPct:     0.40,
		FbOtherPct:     0.07,
		OtherDeptPct:   0.55,
		AdminPct:       0.085,
		ItPct:          0.015,
		SalesPct:       0.05,
		MaintenancePct: 0.04,
		EnergyPct:      0.045,
	}
}

func flatYear(projectID, daysOpen int, occupancy, adr float64) []models.MonthlyCommercial {
	months := make([]models.MonthlyCommercial, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, models.MonthlyCommercial{
			ProjectID: projectID,
			Month:     m,
			DaysOpen:  daysOpen,
			Occupancy: occupancy,
			ADR:       adr,
		})
	}
	return months
}

func referenceYearOneInput() YearOneInput {
	return YearOneInput{
		Rooms:  100,
		FfePct: 0.04,
		Months: flatYear(1, 30, 0.70, 100),
		Ratios: referenceRatios(),
		Contract: models.OperatorContract{
			Managed:         true,
			BaseFee:         120000,
			PctOfRevenue:    0.01,
			PctOfGop:        0.02,
			IncentivePct:    0.08,
			HurdleGopMargin: 0.30,
		},
		NonOperating: models.NonOperatingAssumptions{
			PropertyTax: 120000,
			Insurance:   36000,
			Other:       12000,
		},
	}
}

func TestBuildYearOneFlatSeason(t *testing.T) {
	rows, annual, err := BuildYearOne(referenceYearOneInput())
	if err != nil {
		t.Fatalf("BuildYearOne: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("expected 12 monthly rows, got %d", len(rows))
	}

	for _, row := range rows {
		if row.Roomnights != 2100 {
			t.Errorf("month %d: roomnights = %d, want 2100", row.Month, row.Roomnights)
		}
		if !almostEqual(row.RoomsRevenue, 210000, 1e-6) {
			t.Errorf("month %d: rooms revenue = %.2f, want 210000", row.Month, row.RoomsRevenue)
		}
	}
	if !almostEqual(annual.RoomsRevenue, 2520000, 1e-6) {
		t.Errorf("annual rooms revenue = %.2f, want 2520000", annual.RoomsRevenue)
	}
	if annual.Roomnights != 25200 {
		t.Errorf("annual roomnights = %d, want 25200", annual.Roomnights)
	}
	if annual.Year != 1 {
		t.Errorf("annual year = %d, want 1", annual.Year)
	}
}

func TestBuildYearOneMonthlyIdentities(t *testing.T) {
	rows, _, err := BuildYearOne(referenceYearOneInput())
	if err != nil {
		t.Fatalf("BuildYearOne: %v", err)
	}

	const tol = 1e-6
	for _, row := range rows {
		revenue := row.RoomsRevenue + row.FbRevenue + row.OtherRevenue + row.MiscRevenue
		if !almostEqual(row.TotalRevenue, revenue, tol) {
			t.Errorf("month %d: total revenue %.6f != component sum %.6f", row.Month, row.TotalRevenue, revenue)
		}
		dept := row.RoomsDeptCost + row.FbDeptCost + row.OtherDeptCost
		if !almostEqual(row.DeptTotal, dept, tol) {
			t.Errorf("month %d: dept total %.6f != component sum %.6f", row.Month, row.DeptTotal, dept)
		}
		if !almostEqual(row.DeptProfit, row.TotalRevenue-row.DeptTotal, tol) {
			t.Errorf("month %d: dept profit mismatch", row.Month)
		}
		und := row.AdminGeneral + row.InfoTech + row.SalesMarketing + row.PropertyOps + row.Energy
		if !almostEqual(row.UndistributedTotal, und, tol) {
			t.Errorf("month %d: undistributed total %.6f != line sum %.6f", row.Month, row.UndistributedTotal, und)
		}
		if !almostEqual(row.Gop, row.DeptProfit-row.UndistributedTotal, tol) {
			t.Errorf("month %d: GOP mismatch", row.Month)
		}
		if !almostEqual(row.FeesTotal, row.BaseFee+row.RevenueFee+row.GopFee+row.IncentiveFee, tol) {
			t.Errorf("month %d: fee total mismatch", row.Month)
		}
		if !almostEqual(row.EbitdaLessFfe, row.Ebitda-row.FfeReserve, tol) {
			t.Errorf("month %d: EBITDA-less-FF&E mismatch", row.Month)
		}
	}
}

func TestBuildYearOneAnnualRollUp(t *testing.T) {
	rows, annual, err := BuildYearOne(referenceYearOneInput())
	if err != nil {
		t.Fatalf("BuildYearOne: %v", err)
	}

	var revenue, gop, ebitda, ffe float64
	roomnights := 0
	for _, row := range rows {
		revenue += row.TotalRevenue
		gop += row.Gop
		ebitda += row.Ebitda
		ffe += row.FfeReserve
		roomnights += row.Roomnights
	}

	const tol = 1e-6
	if !almostEqual(annual.TotalRevenue, revenue, tol) {
		t.Errorf("annual revenue %.6f != monthly sum %.6f", annual.TotalRevenue, revenue)
	}
	if !almostEqual(annual.Gop, gop, tol) {
		t.Errorf("annual GOP %.6f != monthly sum %.6f", annual.Gop, gop)
	}
	if !almostEqual(annual.Ebitda, ebitda, tol) {
		t.Errorf("annual EBITDA %.6f != monthly sum %.6f", annual.Ebitda, ebitda)
	}
	if !almostEqual(annual.FfeReserve, ffe, tol) {
		t.Errorf("annual FF&E %.6f != monthly sum %.6f", annual.FfeReserve, ffe)
	}
	if annual.Roomnights != roomnights {
		t.Errorf("annual roomnights %d != monthly sum %d", annual.Roomnights, roomnights)
	}
	if !almostEqual(annual.GopMargin, gop/revenue, tol) {
		t.Errorf("GOP margin %.6f, want %.6f", annual.GopMargin, gop/revenue)
	}
}

func TestBuildYearOneClosedMonth(t *testing.T) {
	in := referenceYearOneInput()
	in.Months[0].DaysOpen = 0

	rows, _, err := BuildYearOne(in)
	if err != nil {
		t.Fatalf("BuildYearOne: %v", err)
	}
	closed := rows[0]
	if closed.Roomnights != 0 || closed.RoomsRevenue != 0 || closed.TotalRevenue != 0 {
		t.Errorf("closed month produced revenue: %+v", closed)
	}
	if closed.Occupancy != 0 || closed.ADR != 0 {
		t.Errorf("closed month kept occupancy/ADR: %+v", closed)
	}
	if closed.NonOperating == 0 {
		t.Errorf("closed month dropped its non-operating share")
	}
	if closed.BaseFee == 0 {
		t.Errorf("closed month dropped its base fee share")
	}
}

func TestBuildYearOneIncentiveHurdle(t *testing.T) {
	in := referenceYearOneInput()
	in.Contract.HurdleGopMargin = 0.99

	rows, _, err := BuildYearOne(in)
	if err != nil {
		t.Fatalf("BuildYearOne: %v", err)
	}
	for _, row := range rows {
		if row.IncentiveFee != 0 {
			t.Errorf("month %d: incentive fee %.2f accrued below hurdle", row.Month, row.IncentiveFee)
		}
	}
}

func TestBuildYearOnePreconditions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*YearOneInput)
	}{
		{"eleven months", func(in *YearOneInput) { in.Months = in.Months[:11] }},
		{"thirteen months", func(in *YearOneInput) {
			in.Months = append(in.Months, models.MonthlyCommercial{Month: 13})
		}},
		{"ffe nan", func(in *YearOneInput) { in.FfePct = math.NaN() }},
		{"ffe above one", func(in *YearOneInput) { in.FfePct = 1.5 }},
		{"ffe negative", func(in *YearOneInput) { in.FfePct = -0.1 }},
		{"zero rooms", func(in *YearOneInput) { in.Rooms = 0 }},
		{"revenue ratios sum to one", func(in *YearOneInput) {
			in.Ratios.OtherToTotal = 0.5
			in.Ratios.MiscToTotal = 0.5
		}},
		{"negative ratio", func(in *YearOneInput) { in.Ratios.AdminPct = -0.01 }},
		{"nan ratio", func(in *YearOneInput) { in.Ratios.FbToRooms = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceYearOneInput()
			tt.mutate(&in)
			rows, _, err := BuildYearOne(in)
			if !errors.Is(err, ErrPrecondition) {
				t.Fatalf("expected ErrPrecondition, got %v", err)
			}
			if rows != nil {
				t.Errorf("precondition failure produced %d rows", len(rows))
			}
		})
	}
}

func TestBuildYearOneRevenueRatioSumRaisesNotInfinity(t *testing.T) {
	in := referenceYearOneInput()
	in.Ratios.OtherToTotal = 0.5
	in.Ratios.MiscToTotal = 0.5

	_, _, err := BuildYearOne(in)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition for ratio sum 1.0, got %v", err)
	}
}
