package models

// GORM-backed tables for computed results. These rows are fully replaced or
// upserted by the calculation handlers; they are never patched in place.

// MonthlyUsali is one computed month of the Year-1 income statement.
type MonthlyUsali struct {
	ID        uint `gorm:"primaryKey;column:id" json:"id"`
	ProjectID int  `gorm:"column:project_id;index;not null" json:"project_id"`
	Month     int  `gorm:"column:month;not null" json:"month"`

	DaysOpen   int     `gorm:"column:days_open" json:"days_open"`
	Occupancy  float64 `gorm:"column:occupancy" json:"occupancy"`
	ADR        float64 `gorm:"column:adr" json:"adr"`
	Roomnights int     `gorm:"column:roomnights" json:"roomnights"`

	RoomsRevenue float64 `gorm:"column:rooms_revenue" json:"rooms_revenue"`
	FbRevenue    float64 `gorm:"column:fb_revenue" json:"fb_revenue"`
	OtherRevenue float64 `gorm:"column:other_revenue" json:"other_revenue"`
	MiscRevenue  float64 `gorm:"column:misc_revenue" json:"misc_revenue"`
	TotalRevenue float64 `gorm:"column:total_revenue" json:"total_revenue"`

	RoomsDeptCost float64 `gorm:"column:rooms_dept_cost" json:"rooms_dept_cost"`
	FbDeptCost    float64 `gorm:"column:fb_dept_cost" json:"fb_dept_cost"`
	OtherDeptCost float64 `gorm:"column:other_dept_cost" json:"other_dept_cost"`
	DeptTotal     float64 `gorm:"column:dept_total" json:"dept_total"`
	DeptProfit    float64 `gorm:"column:dept_profit" json:"dept_profit"`

	AdminGeneral       float64 `gorm:"column:admin_general" json:"admin_general"`
	InfoTech           float64 `gorm:"column:info_tech" json:"info_tech"`
	SalesMarketing     float64 `gorm:"column:sales_marketing" json:"sales_marketing"`
	PropertyOps        float64 `gorm:"column:property_ops" json:"property_ops"`
	Energy             float64 `gorm:"column:energy" json:"energy"`
	UndistributedTotal float64 `gorm:"column:undistributed_total" json:"undistributed_total"`

	Gop float64 `gorm:"column:gop" json:"gop"`

	BaseFee      float64 `gorm:"column:base_fee" json:"base_fee"`
	RevenueFee   float64 `gorm:"column:revenue_fee" json:"revenue_fee"`
	GopFee       float64 `gorm:"column:gop_fee" json:"gop_fee"`
	IncentiveFee float64 `gorm:"column:incentive_fee" json:"incentive_fee"`
	FeesTotal    float64 `gorm:"column:fees_total" json:"fees_total"`

	NonOperating  float64 `gorm:"column:non_operating" json:"non_operating"`
	Ebitda        float64 `gorm:"column:ebitda" json:"ebitda"`
	FfeReserve    float64 `gorm:"column:ffe_reserve" json:"ffe_reserve"`
	EbitdaLessFfe float64 `gorm:"column:ebitda_less_ffe" json:"ebitda_less_ffe"`
}

func (MonthlyUsali) TableName() string {
	return "monthly_usali"
}

// AnnualUsali is one projection year. Year 1 is the roll-up of the twelve
// MonthlyUsali rows; years 2..N come from the projector, unless a row was
// manually overridden, in which case Overridden is set and the row is
// authoritative input to the valuation.
type AnnualUsali struct {
	ID        uint `gorm:"primaryKey;column:id" json:"id"`
	ProjectID int  `gorm:"column:project_id;uniqueIndex:idx_annual_project_year;not null" json:"project_id"`
	Year      int  `gorm:"column:year;uniqueIndex:idx_annual_project_year;not null" json:"year"`

	DaysOpen           int     `gorm:"column:days_open" json:"days_open"`
	Occupancy          float64 `gorm:"column:occupancy" json:"occupancy"`
	FinancialOccupancy float64 `gorm:"column:financial_occupancy" json:"financial_occupancy"`
	ADR                float64 `gorm:"column:adr" json:"adr"`
	Roomnights         int     `gorm:"column:roomnights" json:"roomnights"`

	RoomsRevenue float64 `gorm:"column:rooms_revenue" json:"rooms_revenue"`
	FbRevenue    float64 `gorm:"column:fb_revenue" json:"fb_revenue"`
	OtherRevenue float64 `gorm:"column:other_revenue" json:"other_revenue"`
	MiscRevenue  float64 `gorm:"column:misc_revenue" json:"misc_revenue"`
	TotalRevenue float64 `gorm:"column:total_revenue" json:"total_revenue"`

	RoomsDeptCost float64 `gorm:"column:rooms_dept_cost" json:"rooms_dept_cost"`
	FbDeptCost    float64 `gorm:"column:fb_dept_cost" json:"fb_dept_cost"`
	OtherDeptCost float64 `gorm:"column:other_dept_cost" json:"other_dept_cost"`
	DeptTotal     float64 `gorm:"column:dept_total" json:"dept_total"`
	DeptProfit    float64 `gorm:"column:dept_profit" json:"dept_profit"`

	AdminGeneral       float64 `gorm:"column:admin_general" json:"admin_general"`
	InfoTech           float64 `gorm:"column:info_tech" json:"info_tech"`
	SalesMarketing     float64 `gorm:"column:sales_marketing" json:"sales_marketing"`
	PropertyOps        float64 `gorm:"column:property_ops" json:"property_ops"`
	Energy             float64 `gorm:"column:energy" json:"energy"`
	UndistributedTotal float64 `gorm:"column:undistributed_total" json:"undistributed_total"`

	Gop float64 `gorm:"column:gop" json:"gop"`

	BaseFee      float64 `gorm:"column:base_fee" json:"base_fee"`
	RevenueFee   float64 `gorm:"column:revenue_fee" json:"revenue_fee"`
	GopFee       float64 `gorm:"column:gop_fee" json:"gop_fee"`
	IncentiveFee float64 `gorm:"column:incentive_fee" json:"incentive_fee"`
	FeesTotal    float64 `gorm:"column:fees_total" json:"fees_total"`

	NonOperating  float64 `gorm:"column:non_operating" json:"non_operating"`
	Ebitda        float64 `gorm:"column:ebitda" json:"ebitda"`
	FfeReserve    float64 `gorm:"column:ffe_reserve" json:"ffe_reserve"`
	EbitdaLessFfe float64 `gorm:"column:ebitda_less_ffe" json:"ebitda_less_ffe"`

	GopMargin           float64 `gorm:"column:gop_margin" json:"gop_margin"`
	EbitdaMargin        float64 `gorm:"column:ebitda_margin" json:"ebitda_margin"`
	EbitdaLessFfeMargin float64 `gorm:"column:ebitda_less_ffe_margin" json:"ebitda_less_ffe_margin"`

	Overridden bool `gorm:"column:overridden;default:false" json:"overridden"`
}

func (AnnualUsali) TableName() string {
	return "annual_usali"
}

// DebtScheduleRow is one loan year of the amortization schedule.
type DebtScheduleRow struct {
	ID            uint    `gorm:"primaryKey;column:id" json:"id"`
	ProjectID     int     `gorm:"column:project_id;index;not null" json:"project_id"`
	Year          int     `gorm:"column:year;not null" json:"year"`
	Interest      float64 `gorm:"column:interest" json:"interest"`
	PrincipalPaid float64 `gorm:"column:principal_paid" json:"principal_paid"`
	TotalPayment  float64 `gorm:"column:total_payment" json:"total_payment"`
	EndingBalance float64 `gorm:"column:ending_balance" json:"ending_balance"`
}

func (DebtScheduleRow) TableName() string {
	return "debt_schedule"
}

// ProjectionAssumptions drives the multi-year projector. Persisted per
// project so a projection run can be reproduced.
type ProjectionAssumptions struct {
	ID                        uint    `gorm:"primaryKey;column:id" json:"id"`
	ProjectID                 int     `gorm:"column:project_id;uniqueIndex;not null" json:"project_id"`
	HorizonYears              int     `gorm:"column:horizon_years" json:"horizon_years" example:"5"`
	AdrGrowthPct              float64 `gorm:"column:adr_growth_pct" json:"adr_growth_pct" example:"0.03"`
	OccupancyDeltaPoints      float64 `gorm:"column:occupancy_delta_points" json:"occupancy_delta_points" example:"1.5"`
	OccupancyCap              float64 `gorm:"column:occupancy_cap" json:"occupancy_cap" example:"0.85"`
	CostInflationPct          float64 `gorm:"column:cost_inflation_pct" json:"cost_inflation_pct" example:"0.025"`
	UndistributedInflationPct float64 `gorm:"column:undistributed_inflation_pct" json:"undistributed_inflation_pct" example:"0.02"`
	NonOperatingInflationPct  float64 `gorm:"column:non_operating_inflation_pct" json:"non_operating_inflation_pct" example:"0.02"`
}

func (ProjectionAssumptions) TableName() string {
	return "projection_assumptions"
}

// ValuationResult holds the exit valuation of a project, one row per project.
type ValuationResult struct {
	ID                   uint     `gorm:"primaryKey;column:id" json:"id"`
	ProjectID            int      `gorm:"column:project_id;uniqueIndex;not null" json:"project_id"`
	StabilizedNoi        float64  `gorm:"column:stabilized_noi" json:"stabilized_noi"`
	GrossExitValue       float64  `gorm:"column:gross_exit_value" json:"gross_exit_value"`
	NetExitValue         float64  `gorm:"column:net_exit_value" json:"net_exit_value"`
	DiscountRate         float64  `gorm:"column:discount_rate" json:"discount_rate"`
	ImpliedPurchasePrice float64  `gorm:"column:implied_purchase_price" json:"implied_purchase_price"`
	ExitLtv              *float64 `gorm:"column:exit_ltv" json:"exit_ltv"`
}

func (ValuationResult) TableName() string {
	return "valuation_result"
}

// ReturnsResult holds the investor return metrics, one row per project. IRRs
// are nullable: no root in the bisection interval is a valid outcome the UI
// shows as N/A.
type ReturnsResult struct {
	ID                 uint      `gorm:"primaryKey;column:id" json:"id"`
	ProjectID          int       `gorm:"column:project_id;uniqueIndex;not null" json:"project_id"`
	Equity0            float64   `gorm:"column:equity_0" json:"equity_0"`
	UnleveredCashFlows []float64 `gorm:"column:unlevered_cash_flows;serializer:json" json:"unlevered_cash_flows"`
	LeveredCashFlows   []float64 `gorm:"column:levered_cash_flows;serializer:json" json:"levered_cash_flows"`
	UnleveredIrr       *float64  `gorm:"column:unlevered_irr" json:"unlevered_irr"`
	LeveredIrr         *float64  `gorm:"column:levered_irr" json:"levered_irr"`
	UnleveredMoic      float64   `gorm:"column:unlevered_moic" json:"unlevered_moic"`
	LeveredMoic        float64   `gorm:"column:levered_moic" json:"levered_moic"`
}

func (ReturnsResult) TableName() string {
	return "returns_result"
}
