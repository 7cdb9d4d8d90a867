package models

import (
	"time"

	_ "github.com/lib/pq"
)

type User struct {
	ID         int       `json:"id" example:"1"`
	Email      string    `json:"email" example:"analyst@example.com"`
	Password   string    `json:"password" example:""`
	FirstName  string    `json:"first_name" example:"Laura"`
	LastName   string    `json:"last_name" example:"Marti"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	LastAccess time.Time `json:"last_access,omitempty" example:"2024-01-15T10:30:00Z"`
	IsAdmin    bool      `json:"is_admin" example:"false"`
	Suspended  bool      `json:"suspended" example:"false"`
}

type Session struct {
	UserID                int       `json:"user_id" example:"1"`
	SessionID             string    `json:"session_id" example:""`
	HostName              string    `json:"host_name" example:""`
	IPAddress             string    `json:"ip_address" example:"127.0.0.1"`
	Timestamp             time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	ExpiresAt             time.Time `json:"expires_at" example:"2024-01-16T10:30:00Z"`
	RefreshToken          string    `json:"refresh_token,omitempty" example:""`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty" example:"2024-01-30T10:30:00Z"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"analyst@example.com"`
	Password string `json:"password" binding:"required" example:"secret"`
}

type LoginResponse struct {
	Message      string `json:"message" example:"User successfully logged in"`
	SessionID    string `json:"session_id" example:""`
	AccessToken  string `json:"access_token" example:""`
	RefreshToken string `json:"refresh_token" example:""`
	User         User   `json:"user"`
}

// Workflow states a screening project moves through, in order.
const (
	StateDraft              = "draft"
	StateCommercialAccepted = "commercial-accepted"
	StateUsaliCalculated    = "usali-calculated"
	StateProjected          = "projected"
	StateFinalized          = "finalized"
)

// Project represents the project table: one hotel screening per row.
type Project struct {
	ID               int       `json:"id" example:"1"`
	Name             string    `json:"name" example:"Hotel Miramar"`
	Code             string    `json:"code" example:"HS/2024/0001"`
	Rooms            int       `json:"rooms" example:"120"`
	Segment          string    `json:"segment" example:"upscale"`
	Category         string    `json:"category" example:"urban"`
	Currency         string    `json:"currency" example:"EUR"`
	AmortizationType string    `json:"amortization_type" example:"frances"`
	GopAdjusted      bool      `json:"gop_ajustado" example:"false"`
	FfePct           float64   `json:"ffe_pct" example:"0.04"`
	WorkflowState    string    `json:"workflow_state" example:"draft"`
	CreatedBy        int       `json:"created_by" example:"1"`
	CreatedAt        time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt        time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// MonthlyCommercial is one month of Year-1 commercial input: occupancy, ADR
// and days open, from which roomnights and rooms revenue are derived.
type MonthlyCommercial struct {
	ID           int     `json:"id" example:"1"`
	ProjectID    int     `json:"project_id" example:"1"`
	Month        int     `json:"month" example:"1"`
	DaysOpen     int     `json:"days_open" example:"31"`
	Occupancy    float64 `json:"occupancy" example:"0.72"`
	ADR          float64 `json:"adr" example:"135.50"`
	Roomnights   int     `json:"roomnights" example:"2678"`
	RoomsRevenue float64 `json:"rooms_revenue" example:"362869.00"`
}

// HotelRatios is a benchmark row keyed by (segment, category, size_bucket).
// All percentages are fractions of the revenue line they reference.
type HotelRatios struct {
	ID             int       `json:"id" example:"1"`
	Segment        string    `json:"segment" example:"upscale"`
	Category       string    `json:"category" example:"urban"`
	SizeBucket     string    `json:"size_bucket" example:"S3"`
	FbToRooms      float64   `json:"fb_to_rooms" example:"0.35"`
	OtherToTotal   float64   `json:"other_to_total" example:"0.05"`
	MiscToTotal    float64   `json:"misc_to_total" example:"0.02"`
	RoomsDeptPct   float64   `json:"rooms_dept_pct" example:"0.24"`
	RoomsDeptPerRN float64   `json:"rooms_dept_per_rn" example:"0.0"`
	FoodCostPct    float64   `json:"food_cost_pct" example:"0.28"`
	FbLaborPct     float64   `json:"fb_labor_pct" example:"0.42"`
	FbOtherPct     float64   `json:"fb_other_pct" example:"0.08"`
	OtherDeptPct   float64   `json:"other_dept_pct" example:"0.55"`
	AdminPct       float64   `json:"admin_pct" example:"0.085"`
	ItPct          float64   `json:"it_pct" example:"0.015"`
	SalesPct       float64   `json:"sales_pct" example:"0.05"`
	MaintenancePct float64   `json:"maintenance_pct" example:"0.04"`
	EnergyPct      float64   `json:"energy_pct" example:"0.045"`
	UpdatedAt      time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// FinancingTerms holds the acquisition and debt parameters of a project.
type FinancingTerms struct {
	ProjectID     int     `json:"project_id" example:"1"`
	PurchasePrice float64 `json:"purchase_price" example:"18000000"`
	Capex         float64 `json:"capex" example:"2500000"`
	Ltv           float64 `json:"ltv" example:"0.55"`
	InterestRate  float64 `json:"interest_rate" example:"0.045"`
	TermYears     int     `json:"term_years" example:"12"`
	BuyCostPct    float64 `json:"buy_cost_pct" example:"0.025"`
	SellCostPct   float64 `json:"sell_cost_pct" example:"0.015"`
}

// Valuation methods accepted in ValuationSettings.Method.
const (
	ValuationCapRate  = "cap_rate"
	ValuationMultiple = "multiple"
)

// ValuationSettings selects the exit valuation method. Only the parameter of
// the chosen method needs to be present.
type ValuationSettings struct {
	ProjectID int      `json:"project_id" example:"1"`
	Method    string   `json:"method" example:"cap_rate"`
	CapRate   *float64 `json:"cap_rate,omitempty" example:"0.065"`
	Multiple  *float64 `json:"multiple,omitempty" example:"14.5"`
}

// OperatorContract describes the management agreement. Fees only apply when
// Managed is true. BaseFee is annual.
type OperatorContract struct {
	ProjectID       int     `json:"project_id" example:"1"`
	Managed         bool    `json:"managed" example:"true"`
	BaseFee         float64 `json:"base_fee" example:"120000"`
	PctOfRevenue    float64 `json:"pct_of_revenue" example:"0.01"`
	PctOfGop        float64 `json:"pct_of_gop" example:"0.02"`
	IncentivePct    float64 `json:"incentive_pct" example:"0.08"`
	HurdleGopMargin float64 `json:"hurdle_gop_margin" example:"0.35"`
}

// NonOperatingAssumptions are the four annual non-operating cost lines.
type NonOperatingAssumptions struct {
	ProjectID   int     `json:"project_id" example:"1"`
	PropertyTax float64 `json:"property_tax" example:"180000"`
	Insurance   float64 `json:"insurance" example:"45000"`
	Rent        float64 `json:"rent" example:"0"`
	Other       float64 `json:"other" example:"20000"`
}

// Total returns the sum of the four annual non-operating lines.
func (n NonOperatingAssumptions) Total() float64 {
	return n.PropertyTax + n.Insurance + n.Rent + n.Other
}
