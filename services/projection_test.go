package services

import (
	"errors"
	"reflect"
	"testing"

	"backend/models"
)

func referenceProjectionInput(horizon int) ProjectionInput {
	_, annual, err := BuildYearOne(referenceYearOneInput())
	if err != nil {
		panic(err)
	}
	return ProjectionInput{
		Rooms:   100,
		FfePct:  0.04,
		YearOne: annual,
		Assumptions: models.ProjectionAssumptions{
			HorizonYears:              horizon,
			AdrGrowthPct:              0.03,
			OccupancyDeltaPoints:      1.0,
			OccupancyCap:              0.85,
			CostInflationPct:          0.025,
			UndistributedInflationPct: 0.02,
			NonOperatingInflationPct:  0.02,
		},
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

func TestProjectYearsHorizon(t *testing.T) {
	tests := []struct {
		name    string
		horizon int
		want    int
	}{
		{"five years", 5, 4},
		{"one year", 1, 0},
		{"zero clamps to one", 0, 0},
		{"negative clamps to one", -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ProjectYears(referenceProjectionInput(tt.horizon))
			if err != nil {
				t.Fatalf("ProjectYears: %v", err)
			}
			if len(out) != tt.want {
				t.Fatalf("got %d projected rows, want %d", len(out), tt.want)
			}
			for i, row := range out {
				if row.Year != i+2 {
					t.Errorf("row %d has year %d, want %d", i, row.Year, i+2)
				}
			}
		})
	}
}

func TestProjectYearsOccupancyCap(t *testing.T) {
	in := referenceProjectionInput(12)
	in.Assumptions.OccupancyDeltaPoints = 5.0

	out, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	for _, row := range out {
		if row.Occupancy > in.Assumptions.OccupancyCap+1e-12 {
			t.Errorf("year %d: occupancy %.4f exceeds cap %.4f", row.Year, row.Occupancy, in.Assumptions.OccupancyCap)
		}
		if row.Occupancy < 0 {
			t.Errorf("year %d: negative occupancy %.4f", row.Year, row.Occupancy)
		}
	}
	// With +5 points per year from 70% the cap binds from year 4 on.
	last := out[len(out)-1]
	if !almostEqual(last.Occupancy, in.Assumptions.OccupancyCap, 1e-12) {
		t.Errorf("final year occupancy %.4f, want cap %.4f", last.Occupancy, in.Assumptions.OccupancyCap)
	}
}

func TestProjectYearsOccupancyFloor(t *testing.T) {
	in := referenceProjectionInput(10)
	in.Assumptions.OccupancyDeltaPoints = -15.0

	out, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	for _, row := range out {
		if row.Occupancy < 0 {
			t.Errorf("year %d: occupancy went negative: %.4f", row.Year, row.Occupancy)
		}
	}
}

func TestProjectYearsIdempotence(t *testing.T) {
	in := referenceProjectionInput(6)
	first, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	second, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different projections")
	}
}

func TestProjectYearsRevenueCompounding(t *testing.T) {
	in := referenceProjectionInput(4)
	// Pin occupancy at the Year-1 level so revenue growth is ADR-only.
	in.Assumptions.OccupancyDeltaPoints = 0
	in.Assumptions.OccupancyCap = in.YearOne.Occupancy

	out, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	prev := in.YearOne
	for _, row := range out {
		want := prev.RoomsRevenue * (1 + in.Assumptions.AdrGrowthPct)
		if !almostEqual(row.RoomsRevenue, want, 1e-6) {
			t.Errorf("year %d: rooms revenue %.4f, want %.4f", row.Year, row.RoomsRevenue, want)
		}
		sum := row.RoomsRevenue + row.FbRevenue + row.OtherRevenue + row.MiscRevenue
		if !almostEqual(row.TotalRevenue, sum, 1e-6) {
			t.Errorf("year %d: total revenue %.4f != component sum %.4f", row.Year, row.TotalRevenue, sum)
		}
		prev = row
	}
}

func TestProjectYearsZeroPriorOccupancy(t *testing.T) {
	in := referenceProjectionInput(3)
	in.YearOne.Occupancy = 0
	in.Assumptions.OccupancyDeltaPoints = 0

	out, err := ProjectYears(in)
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	// Growth factor defaults to 1 when prior occupancy is zero.
	if !almostEqual(out[0].RoomsRevenue, in.YearOne.RoomsRevenue, 1e-6) {
		t.Errorf("year 2 rooms revenue %.4f, want unchanged %.4f", out[0].RoomsRevenue, in.YearOne.RoomsRevenue)
	}
}

func TestProjectYearsOperatingDaysFrozen(t *testing.T) {
	out, err := ProjectYears(referenceProjectionInput(5))
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	for _, row := range out {
		if row.DaysOpen != 360 {
			t.Errorf("year %d: days open %d, want Year-1 baseline 360", row.Year, row.DaysOpen)
		}
	}
}

func TestProjectYearsFinancialOccupancyDistinct(t *testing.T) {
	out, err := ProjectYears(referenceProjectionInput(3))
	if err != nil {
		t.Fatalf("ProjectYears: %v", err)
	}
	for _, row := range out {
		want := float64(row.Roomnights) / (100 * 365)
		if !almostEqual(row.FinancialOccupancy, want, 1e-9) {
			t.Errorf("year %d: financial occupancy %.6f, want %.6f", row.Year, row.FinancialOccupancy, want)
		}
		// 360 operating days means financial occupancy sits below the
		// operating measure.
		if row.FinancialOccupancy >= row.Occupancy {
			t.Errorf("year %d: financial occupancy %.4f not below operating %.4f",
				row.Year, row.FinancialOccupancy, row.Occupancy)
		}
	}
}

func TestProjectYearsRequiresSavedYearOne(t *testing.T) {
	in := referenceProjectionInput(5)
	in.YearOne.Year = 0

	_, err := ProjectYears(in)
	if !errors.Is(err, ErrYearOneNotSaved) {
		t.Fatalf("expected ErrYearOneNotSaved, got %v", err)
	}
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("ErrYearOneNotSaved should wrap ErrNotReady")
	}
}
