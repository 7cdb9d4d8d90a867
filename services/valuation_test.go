package services

import (
	"errors"
	"testing"

	"backend/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestIrrSinglePeriodLoan(t *testing.T) {
	irr := Irr([]float64{-100, 110})
	if irr == nil {
		t.Fatal("expected an IRR, got nil")
	}
	if !almostEqual(*irr, 0.10, 1e-6) {
		t.Errorf("IRR = %.8f, want 0.10", *irr)
	}
}

func TestIrrNoRoot(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
	}{
		{"all negative", []float64{-100, -10, -5}},
		{"all positive", []float64{100, 10, 5}},
		{"too short", []float64{-100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if irr := Irr(tt.flows); irr != nil {
				t.Errorf("expected nil IRR, got %.6f", *irr)
			}
		})
	}
}

func TestIrrMultiYear(t *testing.T) {
	// -1000 now, 400 for three years: IRR ~ 9.70%.
	irr := Irr([]float64{-1000, 400, 400, 400})
	if irr == nil {
		t.Fatal("expected an IRR, got nil")
	}
	if npv := Npv(*irr, []float64{-1000, 400, 400, 400}); !almostEqual(npv, 0, 1e-4) {
		t.Errorf("NPV at solved IRR = %.8f, want ~0", npv)
	}
}

func TestMoic(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
		want  float64
	}{
		{"simple", []float64{-100, 50, 75}, 1.25},
		{"loss", []float64{-100, 40}, 0.40},
		{"near-zero outlay", []float64{0, 100}, 0},
		{"too short", []float64{-100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Moic(tt.flows); !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Moic = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestStabilizedNoi(t *testing.T) {
	annuals := []models.AnnualUsali{
		{Year: 1, EbitdaLessFfe: 100},
		{Year: 2, EbitdaLessFfe: 100},
	}
	// Year 1 compounds one year at 2% to the exit year: (102 + 100) / 2.
	if got := StabilizedNoi(annuals); !almostEqual(got, 101, 1e-9) {
		t.Errorf("StabilizedNoi = %.6f, want 101", got)
	}

	single := []models.AnnualUsali{{Year: 1, EbitdaLessFfe: 250}}
	if got := StabilizedNoi(single); !almostEqual(got, 250, 1e-9) {
		t.Errorf("StabilizedNoi single year = %.6f, want 250", got)
	}

	// Only the trailing four years enter the window.
	six := []models.AnnualUsali{
		{Year: 1, EbitdaLessFfe: 1e9},
		{Year: 2, EbitdaLessFfe: 1e9},
		{Year: 3, EbitdaLessFfe: 100},
		{Year: 4, EbitdaLessFfe: 100},
		{Year: 5, EbitdaLessFfe: 100},
		{Year: 6, EbitdaLessFfe: 100},
	}
	if got := StabilizedNoi(six); got > 110 {
		t.Errorf("StabilizedNoi leaked years outside the trailing window: %.2f", got)
	}
}

func TestStabilizedNoiFallsBackToEbitda(t *testing.T) {
	annuals := []models.AnnualUsali{{Year: 1, Ebitda: 300}}
	if got := StabilizedNoi(annuals); !almostEqual(got, 300, 1e-9) {
		t.Errorf("StabilizedNoi = %.6f, want EBITDA fallback 300", got)
	}
}

func referenceValuationInput() ValuationInput {
	annuals := make([]models.AnnualUsali, 0, 5)
	for y := 1; y <= 5; y++ {
		annuals = append(annuals, models.AnnualUsali{
			ProjectID:     1,
			Year:          y,
			Ebitda:        1200000,
			EbitdaLessFfe: 1000000,
		})
	}
	return ValuationInput{
		Annuals: annuals,
		Debt:    FrenchSchedule(9000000, 0.045, 12),
		Terms: models.FinancingTerms{
			PurchasePrice: 15000000,
			Capex:         1000000,
			Ltv:           0.5625,
			InterestRate:  0.045,
			TermYears:     12,
			BuyCostPct:    0.025,
			SellCostPct:   0.015,
		},
		Settings: models.ValuationSettings{
			Method:  models.ValuationCapRate,
			CapRate: floatPtr(0.065),
		},
	}
}

func TestRunValuationCapRate(t *testing.T) {
	in := referenceValuationInput()
	val, ret, err := RunValuation(in)
	if err != nil {
		t.Fatalf("RunValuation: %v", err)
	}

	if !almostEqual(val.GrossExitValue, val.StabilizedNoi/0.065, 1e-6) {
		t.Errorf("gross exit %.2f != stabilized NOI / cap rate", val.GrossExitValue)
	}
	if !almostEqual(val.NetExitValue, val.GrossExitValue*(1-0.015), 1e-6) {
		t.Errorf("net exit %.2f does not reflect selling costs", val.NetExitValue)
	}
	if val.DiscountRate != 0.065 {
		t.Errorf("discount rate %.4f, want cap rate 0.065", val.DiscountRate)
	}

	wantEquity := (15000000+1000000)*(1-0.5625) + 0.025*15000000
	if !almostEqual(ret.Equity0, wantEquity, 1e-6) {
		t.Errorf("equity at close %.2f, want %.2f", ret.Equity0, wantEquity)
	}

	if len(ret.UnleveredCashFlows) != 6 || len(ret.LeveredCashFlows) != 6 {
		t.Fatalf("cash-flow vectors have %d/%d entries, want 6",
			len(ret.UnleveredCashFlows), len(ret.LeveredCashFlows))
	}
	if !almostEqual(ret.UnleveredCashFlows[0], -wantEquity, 1e-6) {
		t.Errorf("t0 outlay %.2f, want %.2f", ret.UnleveredCashFlows[0], -wantEquity)
	}
	for y := 1; y <= 4; y++ {
		if !almostEqual(ret.UnleveredCashFlows[y], 1000000, 1e-6) {
			t.Errorf("unlevered CF year %d = %.2f, want 1000000", y, ret.UnleveredCashFlows[y])
		}
		if ret.LeveredCashFlows[y] >= ret.UnleveredCashFlows[y] {
			t.Errorf("levered CF year %d not reduced by debt service", y)
		}
	}
	terminal := ret.UnleveredCashFlows[5]
	if !almostEqual(terminal, 1000000+val.NetExitValue, 1e-6) {
		t.Errorf("terminal unlevered CF %.2f, want CF + net exit", terminal)
	}

	if ret.UnleveredIrr == nil || ret.LeveredIrr == nil {
		t.Fatal("expected defined IRRs for a profitable deal")
	}
	if ret.UnleveredMoic <= 0 || ret.LeveredMoic <= 0 {
		t.Errorf("MOIC not positive: %.4f / %.4f", ret.UnleveredMoic, ret.LeveredMoic)
	}
	if val.ExitLtv == nil {
		t.Fatal("expected an exit LTV")
	}
	if *val.ExitLtv <= 0 || *val.ExitLtv >= 1 {
		t.Errorf("exit LTV %.4f outside (0,1)", *val.ExitLtv)
	}
}

func TestRunValuationMultipleMethod(t *testing.T) {
	in := referenceValuationInput()
	in.Settings = models.ValuationSettings{
		Method:   models.ValuationMultiple,
		Multiple: floatPtr(14.0),
	}

	val, _, err := RunValuation(in)
	if err != nil {
		t.Fatalf("RunValuation: %v", err)
	}
	if !almostEqual(val.GrossExitValue, val.StabilizedNoi*14.0, 1e-6) {
		t.Errorf("gross exit %.2f != stabilized NOI x multiple", val.GrossExitValue)
	}
	if !almostEqual(val.DiscountRate, 1.0/14.0, 1e-12) {
		t.Errorf("discount rate %.6f, want 1/multiple", val.DiscountRate)
	}
}

func TestRunValuationLeveredTerminalNetsOutDebt(t *testing.T) {
	in := referenceValuationInput()
	// Bullet loan leaves the full principal outstanding at the 5-year exit.
	in.Debt = BulletSchedule(9000000, 0.045, 12)

	val, ret, err := RunValuation(in)
	if err != nil {
		t.Fatalf("RunValuation: %v", err)
	}
	last := len(ret.LeveredCashFlows) - 1
	wantTerminal := 1000000 - 9000000*0.045 + val.NetExitValue - 9000000
	if !almostEqual(ret.LeveredCashFlows[last], wantTerminal, 1e-6) {
		t.Errorf("levered terminal CF %.2f, want %.2f", ret.LeveredCashFlows[last], wantTerminal)
	}
	if *val.ExitLtv <= 0 {
		t.Errorf("exit LTV %.4f, want positive with debt outstanding", *val.ExitLtv)
	}
}

func TestRunValuationMissingConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		settings models.ValuationSettings
	}{
		{"cap rate absent", models.ValuationSettings{Method: models.ValuationCapRate}},
		{"cap rate zero", models.ValuationSettings{Method: models.ValuationCapRate, CapRate: floatPtr(0)}},
		{"multiple absent", models.ValuationSettings{Method: models.ValuationMultiple}},
		{"unknown method", models.ValuationSettings{Method: "dcf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceValuationInput()
			in.Settings = tt.settings
			_, _, err := RunValuation(in)
			if !errors.Is(err, ErrMissingConfig) {
				t.Fatalf("expected ErrMissingConfig, got %v", err)
			}
		})
	}
}

func TestRunValuationRequiresAnnualSeries(t *testing.T) {
	in := referenceValuationInput()
	in.Annuals = nil
	_, _, err := RunValuation(in)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}
