package services

import (
	"math"

	"backend/models"
)

// stabilizedNoiGrowth is the internal growth rate used to roll trailing NOI
// figures forward to the exit year before averaging them.
const stabilizedNoiGrowth = 0.02

const (
	irrLowerBound = -0.99
	irrUpperBound = 1.0
	irrMaxIter    = 200
	irrTolerance  = 1e-8
)

// ValuationInput is everything the valuation and returns engine consumes:
// the full annual series (manual overrides included), the debt schedule and
// the financing/valuation parameters.
type ValuationInput struct {
	Annuals  []models.AnnualUsali
	Debt     []models.DebtScheduleRow
	Terms    models.FinancingTerms
	Settings models.ValuationSettings
}

// noiFor prefers EBITDA-less-FF&E and falls back to EBITDA when the reserve
// figure is absent.
func noiFor(row models.AnnualUsali) float64 {
	if row.EbitdaLessFfe != 0 {
		return row.EbitdaLessFfe
	}
	return row.Ebitda
}

// StabilizedNoi averages the last min(4, len) annual NOI figures after
// compounding each to the exit year. The smoothed figure, not the raw final
// year, feeds the exit valuation.
func StabilizedNoi(annuals []models.AnnualUsali) float64 {
	n := len(annuals)
	if n == 0 {
		return 0
	}
	exitYear := annuals[n-1].Year
	window := 4
	if n < window {
		window = n
	}

	sum := 0.0
	for _, row := range annuals[n-window:] {
		sum += noiFor(row) * math.Pow(1+stabilizedNoiGrowth, float64(exitYear-row.Year))
	}
	return sum / float64(window)
}

// Npv discounts a cash-flow vector whose first element sits at t0.
func Npv(rate float64, cashFlows []float64) float64 {
	npv := 0.0
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// Irr solves NPV(rate) = 0 by bisection on [-0.99, 1.0]. A nil result means
// no root exists in the interval; callers must treat that as a legitimate
// "undefined IRR" outcome, not a failure.
func Irr(cashFlows []float64) *float64 {
	if len(cashFlows) < 2 {
		return nil
	}

	lo, hi := irrLowerBound, irrUpperBound
	npvLo, npvHi := Npv(lo, cashFlows), Npv(hi, cashFlows)
	if npvLo*npvHi > 0 {
		return nil
	}

	var mid float64
	for i := 0; i < irrMaxIter; i++ {
		mid = (lo + hi) / 2
		npvMid := Npv(mid, cashFlows)
		if math.Abs(npvMid) < irrTolerance {
			break
		}
		if npvLo*npvMid < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}
	return &mid
}

// Moic is total distributions after t0 over the absolute initial outlay,
// guarded against a near-zero outlay.
func Moic(cashFlows []float64) float64 {
	if len(cashFlows) < 2 {
		return 0
	}
	outlay := math.Abs(cashFlows[0])
	if outlay < 1e-9 {
		return 0
	}
	distributed := 0.0
	for _, cf := range cashFlows[1:] {
		distributed += cf
	}
	return distributed / outlay
}

// RunValuation computes the exit valuation and the investor return metrics
// from the complete annual series and debt schedule. Configuration errors
// surface before any numeric work.
func RunValuation(in ValuationInput) (models.ValuationResult, models.ReturnsResult, error) {
	var val models.ValuationResult
	var ret models.ReturnsResult

	if len(in.Annuals) == 0 {
		return val, ret, notReadyf("no annual rows available for valuation")
	}

	var capRate, multiple float64
	switch in.Settings.Method {
	case models.ValuationCapRate:
		if in.Settings.CapRate == nil || *in.Settings.CapRate <= 0 {
			return val, ret, missingConfigf("cap-rate valuation selected but cap_rate is not set")
		}
		capRate = *in.Settings.CapRate
	case models.ValuationMultiple:
		if in.Settings.Multiple == nil || *in.Settings.Multiple <= 0 {
			return val, ret, missingConfigf("multiple valuation selected but multiple is not set")
		}
		multiple = *in.Settings.Multiple
	default:
		return val, ret, missingConfigf("unknown valuation method %q", in.Settings.Method)
	}

	terms := in.Terms
	n := len(in.Annuals)
	exitYear := in.Annuals[n-1].Year

	val.StabilizedNoi = StabilizedNoi(in.Annuals)
	if in.Settings.Method == models.ValuationCapRate {
		val.GrossExitValue = val.StabilizedNoi / capRate
		val.DiscountRate = capRate
	} else {
		val.GrossExitValue = val.StabilizedNoi * multiple
		// Known-suspect shortcut kept for compatibility: the inverse of the
		// exit multiple stands in for a discount rate.
		val.DiscountRate = 1 / multiple
	}
	val.NetExitValue = val.GrossExitValue * (1 - terms.SellCostPct)

	// Implied purchase price: back-solve
	// price*(1+buyCostPct) = PV(operating CFs) + PV(net exit) - capex.
	pv := 0.0
	for i, row := range in.Annuals {
		pv += noiFor(row) / math.Pow(1+val.DiscountRate, float64(i+1))
	}
	pv += val.NetExitValue / math.Pow(1+val.DiscountRate, float64(n))
	val.ImpliedPurchasePrice = (pv - terms.Capex) / (1 + terms.BuyCostPct)

	// Transaction costs apply to the purchase price only, not capex.
	buyCosts := terms.BuyCostPct * terms.PurchasePrice
	equity0 := (terms.PurchasePrice+terms.Capex)*(1-terms.Ltv) + buyCosts
	ret.Equity0 = equity0

	debtPayment := make(map[int]float64, len(in.Debt))
	outstandingAtExit := 0.0
	for _, row := range in.Debt {
		debtPayment[row.Year] = row.TotalPayment
		if row.Year == exitYear {
			outstandingAtExit = row.EndingBalance
		}
	}

	unlevered := make([]float64, 0, n+1)
	levered := make([]float64, 0, n+1)
	unlevered = append(unlevered, -equity0)
	levered = append(levered, -equity0)
	for i, row := range in.Annuals {
		cf := noiFor(row)
		lcf := cf - debtPayment[row.Year]
		if i == n-1 {
			cf += val.NetExitValue
			lcf += val.NetExitValue - outstandingAtExit
		}
		unlevered = append(unlevered, cf)
		levered = append(levered, lcf)
	}

	ret.UnleveredCashFlows = unlevered
	ret.LeveredCashFlows = levered
	ret.UnleveredIrr = Irr(unlevered)
	ret.LeveredIrr = Irr(levered)
	ret.UnleveredMoic = Moic(unlevered)
	ret.LeveredMoic = Moic(levered)

	if val.GrossExitValue != 0 {
		exitLtv := outstandingAtExit / val.GrossExitValue
		val.ExitLtv = &exitLtv
	}

	return val, ret, nil
}
