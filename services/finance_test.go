package services

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestFrenchScheduleReferenceLoan(t *testing.T) {
	rows := FrenchSchedule(1000000, 0.05, 10)
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}

	if !almostEqual(rows[0].Interest, 50000, 0.01) {
		t.Errorf("year-1 interest = %.2f, want 50000", rows[0].Interest)
	}
	if !almostEqual(rows[0].TotalPayment, 129504.57, 0.5) {
		t.Errorf("annuity payment = %.2f, want ~129504.57", rows[0].TotalPayment)
	}
	if !almostEqual(rows[9].EndingBalance, 0, 1) {
		t.Errorf("final balance = %.6f, want ~0", rows[9].EndingBalance)
	}
}

func TestFrenchScheduleBalanceInvariants(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"typical", 2500000, 0.045, 15},
		{"short high rate", 400000, 0.12, 3},
		{"zero rate", 100, 0, 4},
		{"one year", 750000, 0.06, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := FrenchSchedule(tt.principal, tt.rate, tt.term)
			if len(rows) != tt.term {
				t.Fatalf("expected %d rows, got %d", tt.term, len(rows))
			}
			prev := tt.principal
			for _, row := range rows {
				if row.EndingBalance > prev+1e-9 {
					t.Errorf("year %d: balance increased from %.6f to %.6f", row.Year, prev, row.EndingBalance)
				}
				if row.EndingBalance < 0 {
					t.Errorf("year %d: negative balance %.6f", row.Year, row.EndingBalance)
				}
				if !almostEqual(prev-row.PrincipalPaid, row.EndingBalance, 1e-6) {
					t.Errorf("year %d: balance %.6f does not match prev %.6f - principal %.6f",
						row.Year, row.EndingBalance, prev, row.PrincipalPaid)
				}
				prev = row.EndingBalance
			}
			if !almostEqual(rows[len(rows)-1].EndingBalance, 0, 1e-6) {
				t.Errorf("final balance = %.9f, want 0", rows[len(rows)-1].EndingBalance)
			}
		})
	}
}

func TestFrenchScheduleZeroRate(t *testing.T) {
	rows := FrenchSchedule(100, 0, 4)
	for _, row := range rows {
		if !almostEqual(row.PrincipalPaid, 25, 1e-9) {
			t.Errorf("year %d: principal paid = %.6f, want 25", row.Year, row.PrincipalPaid)
		}
		if row.Interest != 0 {
			t.Errorf("year %d: interest = %.6f, want 0", row.Year, row.Interest)
		}
	}
}

func TestBulletScheduleReferenceLoan(t *testing.T) {
	rows := BulletSchedule(500000, 0.04, 5)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for _, row := range rows[:4] {
		if !almostEqual(row.Interest, 20000, 1e-9) {
			t.Errorf("year %d: interest = %.2f, want 20000", row.Year, row.Interest)
		}
		if row.PrincipalPaid != 0 {
			t.Errorf("year %d: principal paid = %.2f, want 0", row.Year, row.PrincipalPaid)
		}
		if row.EndingBalance != 500000 {
			t.Errorf("year %d: balance = %.2f, want 500000", row.Year, row.EndingBalance)
		}
	}
	last := rows[4]
	if !almostEqual(last.Interest, 20000, 1e-9) || last.PrincipalPaid != 500000 || last.EndingBalance != 0 {
		t.Errorf("final year = %+v, want interest 20000, principal 500000, balance 0", last)
	}
	if !almostEqual(last.TotalPayment, 520000, 1e-9) {
		t.Errorf("final payment = %.2f, want 520000", last.TotalPayment)
	}
}

func TestDebtScheduleDegenerateInputs(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"zero principal", 0, 0.05, 10},
		{"negative principal", -100, 0.05, 10},
		{"negative rate", 100000, -0.01, 10},
		{"zero term", 100000, 0.05, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rows := FrenchSchedule(tt.principal, tt.rate, tt.term); len(rows) != 0 {
				t.Errorf("FrenchSchedule returned %d rows, want 0", len(rows))
			}
			if rows := BulletSchedule(tt.principal, tt.rate, tt.term); len(rows) != 0 {
				t.Errorf("BulletSchedule returned %d rows, want 0", len(rows))
			}
		})
	}
}

func TestBuildDebtScheduleDispatch(t *testing.T) {
	bullet := BuildDebtSchedule(AmortizationBullet, 100000, 0.05, 5)
	if bullet[0].PrincipalPaid != 0 {
		t.Errorf("bullet schedule amortized principal in year 1")
	}
	french := BuildDebtSchedule(AmortizationFrench, 100000, 0.05, 5)
	if french[0].PrincipalPaid <= 0 {
		t.Errorf("french schedule paid no principal in year 1")
	}
}
