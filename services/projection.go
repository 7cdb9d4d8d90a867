package services

import (
	"math"

	"backend/models"
)

// ProjectionInput bundles the saved Year-1 annual row with the assumptions
// and contract parameters needed to roll the statement forward.
type ProjectionInput struct {
	Rooms        int
	GopAdjusted  bool
	FfePct       float64
	YearOne      models.AnnualUsali
	Assumptions  models.ProjectionAssumptions
	Contract     models.OperatorContract
	NonOperating models.NonOperatingAssumptions
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProjectYears produces the annual USALI rows for years 2..N from the saved
// Year-1 row. Year 1 itself is never re-derived here: the saved row is the
// authoritative baseline and stays untouched. A horizon of 1 yields no rows.
//
// Operating days stay frozen at Year 1's count for every projected year; the
// seasonal closure pattern is assumed stable over the horizon.
func ProjectYears(in ProjectionInput) ([]models.AnnualUsali, error) {
	if in.Rooms <= 0 {
		return nil, preconditionf("room count must be positive, got %d", in.Rooms)
	}
	if in.YearOne.Year != 1 {
		return nil, ErrYearOneNotSaved
	}
	if math.IsNaN(in.FfePct) || in.FfePct < 0 || in.FfePct > 1 {
		return nil, preconditionf("ffe_pct must be in [0,1], got %v", in.FfePct)
	}
	a := in.Assumptions
	if a.OccupancyCap < 0 || a.OccupancyCap > 1 {
		return nil, preconditionf("occupancy_cap must be in [0,1], got %v", a.OccupancyCap)
	}

	horizon := a.HorizonYears
	if horizon < 1 {
		horizon = 1
	}

	// Year-1 undistributed shares are the fixed distribution key for every
	// projected year; later years keep inflating the total but never drift
	// the mix.
	undShares := [5]float64{}
	if in.YearOne.UndistributedTotal > 0 {
		undShares[0] = in.YearOne.AdminGeneral / in.YearOne.UndistributedTotal
		undShares[1] = in.YearOne.InfoTech / in.YearOne.UndistributedTotal
		undShares[2] = in.YearOne.SalesMarketing / in.YearOne.UndistributedTotal
		undShares[3] = in.YearOne.PropertyOps / in.YearOne.UndistributedTotal
		undShares[4] = in.YearOne.Energy / in.YearOne.UndistributedTotal
	}

	prev := in.YearOne
	out := make([]models.AnnualUsali, 0, horizon-1)
	for year := 2; year <= horizon; year++ {
		row := models.AnnualUsali{
			ProjectID: prev.ProjectID,
			Year:      year,
			DaysOpen:  in.YearOne.DaysOpen,
		}

		row.ADR = prev.ADR * (1 + a.AdrGrowthPct)
		row.Occupancy = clamp(prev.Occupancy+a.OccupancyDeltaPoints/100, 0, a.OccupancyCap)

		growth := 1.0
		if prev.Occupancy > 0 {
			growth = (1 + a.AdrGrowthPct) * (row.Occupancy / prev.Occupancy)
		}

		row.RoomsRevenue = prev.RoomsRevenue * growth
		row.FbRevenue = prev.FbRevenue * growth
		row.OtherRevenue = prev.OtherRevenue * growth
		row.MiscRevenue = prev.MiscRevenue * growth
		row.TotalRevenue = row.RoomsRevenue + row.FbRevenue + row.OtherRevenue + row.MiscRevenue

		row.Roomnights = int(math.Round(row.Occupancy * float64(in.Rooms) * float64(in.YearOne.DaysOpen)))
		if in.Rooms > 0 {
			row.FinancialOccupancy = float64(row.Roomnights) / (float64(in.Rooms) * 365)
		}

		// Departmental cost inflates on a per-roomnight basis, then is
		// spread over the departments in proportion to their share of
		// operated revenue (misc excluded).
		costPerRN := 0.0
		if prev.Roomnights > 0 {
			costPerRN = prev.DeptTotal / float64(prev.Roomnights)
		}
		row.DeptTotal = costPerRN * (1 + a.CostInflationPct) * float64(row.Roomnights)
		operated := row.RoomsRevenue + row.FbRevenue + row.OtherRevenue
		if operated > 0 {
			row.RoomsDeptCost = row.DeptTotal * row.RoomsRevenue / operated
			row.FbDeptCost = row.DeptTotal * row.FbRevenue / operated
			row.OtherDeptCost = row.DeptTotal * row.OtherRevenue / operated
		}
		row.DeptProfit = row.TotalRevenue - row.DeptTotal

		row.UndistributedTotal = prev.UndistributedTotal * (1 + a.UndistributedInflationPct)
		row.AdminGeneral = row.UndistributedTotal * undShares[0]
		row.InfoTech = row.UndistributedTotal * undShares[1]
		row.SalesMarketing = row.UndistributedTotal * undShares[2]
		row.PropertyOps = row.UndistributedTotal * undShares[3]
		row.Energy = row.UndistributedTotal * undShares[4]

		row.NonOperating = prev.NonOperating * (1 + a.NonOperatingInflationPct)

		row.Gop = row.DeptProfit - row.UndistributedTotal
		row.FfeReserve = in.FfePct * row.TotalRevenue

		feeBase := row.Gop
		if in.GopAdjusted {
			feeBase = row.Gop - row.FfeReserve
		}
		row.BaseFee, row.RevenueFee, row.GopFee, row.IncentiveFee =
			operatorFees(in.Contract, in.Contract.BaseFee, row.TotalRevenue, feeBase)
		row.FeesTotal = row.BaseFee + row.RevenueFee + row.GopFee + row.IncentiveFee

		row.Ebitda = row.Gop - row.FeesTotal - row.NonOperating
		row.EbitdaLessFfe = row.Ebitda - row.FfeReserve

		denom := math.Max(row.TotalRevenue, 1)
		row.GopMargin = row.Gop / denom
		row.EbitdaMargin = row.Ebitda / denom
		row.EbitdaLessFfeMargin = row.EbitdaLessFfe / denom

		out = append(out, row)
		prev = row
	}

	return out, nil
}
