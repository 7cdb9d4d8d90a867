package services

import (
	"math"

	"backend/models"
)

// YearOneInput bundles everything the Year-1 builder needs. All of it comes
// from persisted project data; the builder itself does no I/O.
type YearOneInput struct {
	Rooms        int
	GopAdjusted  bool
	FfePct       float64
	Months       []models.MonthlyCommercial
	Ratios       models.HotelRatios
	Contract     models.OperatorContract
	NonOperating models.NonOperatingAssumptions
}

// operatorFees computes the monthly or annual fee block. baseFee is already
// scaled to the period. The incentive only accrues when the fee base clears
// the contractual GOP-margin hurdle.
func operatorFees(contract models.OperatorContract, baseFee, totalRevenue, feeBase float64) (base, revenue, gop, incentive float64) {
	if !contract.Managed {
		return 0, 0, 0, 0
	}
	base = baseFee
	revenue = contract.PctOfRevenue * totalRevenue
	gop = contract.PctOfGop * feeBase
	if totalRevenue > 0 && feeBase/totalRevenue >= contract.HurdleGopMargin {
		incentive = contract.IncentivePct * feeBase
	}
	return base, revenue, gop, incentive
}

// BuildYearOne converts twelve months of commercial input plus a benchmark
// ratio row into the full Year-1 monthly USALI statement and its annual
// roll-up. Preconditions fail before any month is computed, so a failure
// never yields partial output.
func BuildYearOne(in YearOneInput) ([]models.MonthlyUsali, models.AnnualUsali, error) {
	var annual models.AnnualUsali

	if in.Rooms <= 0 {
		return nil, annual, preconditionf("room count must be positive, got %d", in.Rooms)
	}
	if len(in.Months) != 12 {
		return nil, annual, preconditionf("expected 12 monthly commercial rows, got %d", len(in.Months))
	}
	if math.IsNaN(in.FfePct) || in.FfePct < 0 || in.FfePct > 1 {
		return nil, annual, preconditionf("ffe_pct must be in [0,1], got %v", in.FfePct)
	}
	if err := ValidateRatios(in.Ratios); err != nil {
		return nil, annual, err
	}

	r := in.Ratios
	nonOpMonthly := in.NonOperating.Total() / 12
	monthlyBaseFee := in.Contract.BaseFee / 12

	rows := make([]models.MonthlyUsali, 0, 12)
	for _, mc := range in.Months {
		row := models.MonthlyUsali{
			ProjectID: mc.ProjectID,
			Month:     mc.Month,
			DaysOpen:  mc.DaysOpen,
			Occupancy: mc.Occupancy,
			ADR:       mc.ADR,
		}

		// A closed month contributes nothing to the top line but still
		// carries its share of base fee and non-operating costs.
		if mc.DaysOpen > 0 {
			row.Roomnights = int(math.Round(mc.Occupancy * float64(in.Rooms) * float64(mc.DaysOpen)))
			row.RoomsRevenue = float64(row.Roomnights) * mc.ADR
		} else {
			row.Occupancy = 0
			row.ADR = 0
		}

		row.TotalRevenue = row.RoomsRevenue * (1 + r.FbToRooms) / (1 - r.OtherToTotal - r.MiscToTotal)
		row.FbRevenue = r.FbToRooms * row.RoomsRevenue
		row.OtherRevenue = r.OtherToTotal * row.TotalRevenue
		row.MiscRevenue = r.MiscToTotal * row.TotalRevenue

		row.RoomsDeptCost = r.RoomsDeptPct*row.RoomsRevenue + r.RoomsDeptPerRN*float64(row.Roomnights)
		row.FbDeptCost = (r.FoodCostPct + r.FbLaborPct + r.FbOtherPct) * row.FbRevenue
		row.OtherDeptCost = r.OtherDeptPct * row.OtherRevenue
		row.DeptTotal = row.RoomsDeptCost + row.FbDeptCost + row.OtherDeptCost
		row.DeptProfit = row.TotalRevenue - row.DeptTotal

		row.AdminGeneral = r.AdminPct * row.TotalRevenue
		row.InfoTech = r.ItPct * row.TotalRevenue
		row.SalesMarketing = r.SalesPct * row.TotalRevenue
		row.PropertyOps = r.MaintenancePct * row.TotalRevenue
		row.Energy = r.EnergyPct * row.TotalRevenue
		row.UndistributedTotal = row.AdminGeneral + row.InfoTech + row.SalesMarketing + row.PropertyOps + row.Energy

		row.Gop = row.DeptProfit - row.UndistributedTotal
		row.FfeReserve = in.FfePct * row.TotalRevenue

		feeBase := row.Gop
		if in.GopAdjusted {
			feeBase = row.Gop - row.FfeReserve
		}
		row.BaseFee, row.RevenueFee, row.GopFee, row.IncentiveFee =
			operatorFees(in.Contract, monthlyBaseFee, row.TotalRevenue, feeBase)
		row.FeesTotal = row.BaseFee + row.RevenueFee + row.GopFee + row.IncentiveFee

		row.NonOperating = nonOpMonthly
		row.Ebitda = row.Gop - row.FeesTotal - row.NonOperating
		row.EbitdaLessFfe = row.Ebitda - row.FfeReserve

		rows = append(rows, row)
	}

	annual = rollUpYearOne(in.Rooms, rows)
	return rows, annual, nil
}

// rollUpYearOne sums the twelve monthly rows into the Year-1 annual row.
func rollUpYearOne(rooms int, months []models.MonthlyUsali) models.AnnualUsali {
	a := models.AnnualUsali{Year: 1}
	if len(months) > 0 {
		a.ProjectID = months[0].ProjectID
	}
	for _, m := range months {
		a.DaysOpen += m.DaysOpen
		a.Roomnights += m.Roomnights
		a.RoomsRevenue += m.RoomsRevenue
		a.FbRevenue += m.FbRevenue
		a.OtherRevenue += m.OtherRevenue
		a.MiscRevenue += m.MiscRevenue
		a.TotalRevenue += m.TotalRevenue
		a.RoomsDeptCost += m.RoomsDeptCost
		a.FbDeptCost += m.FbDeptCost
		a.OtherDeptCost += m.OtherDeptCost
		a.DeptTotal += m.DeptTotal
		a.DeptProfit += m.DeptProfit
		a.AdminGeneral += m.AdminGeneral
		a.InfoTech += m.InfoTech
		a.SalesMarketing += m.SalesMarketing
		a.PropertyOps += m.PropertyOps
		a.Energy += m.Energy
		a.UndistributedTotal += m.UndistributedTotal
		a.Gop += m.Gop
		a.BaseFee += m.BaseFee
		a.RevenueFee += m.RevenueFee
		a.GopFee += m.GopFee
		a.IncentiveFee += m.IncentiveFee
		a.FeesTotal += m.FeesTotal
		a.NonOperating += m.NonOperating
		a.Ebitda += m.Ebitda
		a.FfeReserve += m.FfeReserve
		a.EbitdaLessFfe += m.EbitdaLessFfe
	}

	if a.Roomnights > 0 {
		a.ADR = a.RoomsRevenue / float64(a.Roomnights)
	}
	if rooms > 0 && a.DaysOpen > 0 {
		a.Occupancy = float64(a.Roomnights) / (float64(rooms) * float64(a.DaysOpen))
	}
	if rooms > 0 {
		a.FinancialOccupancy = float64(a.Roomnights) / (float64(rooms) * 365)
	}

	// Margin denominators are floored at 1 so a degenerate all-closed year
	// yields zero margins instead of a division by zero.
	denom := math.Max(a.TotalRevenue, 1)
	a.GopMargin = a.Gop / denom
	a.EbitdaMargin = a.Ebitda / denom
	a.EbitdaLessFfeMargin = a.EbitdaLessFfe / denom
	return a
}
