package services

import (
	"math"

	"backend/models"
)

// Amortization types accepted on the project row.
const (
	AmortizationFrench = "frances"
	AmortizationBullet = "bullet"
)

// FrenchSchedule builds a constant-annuity amortization schedule with one row
// per loan year. Degenerate inputs (no principal, negative rate, no term)
// yield an empty schedule: a zero-debt project is valid, not an error.
func FrenchSchedule(principal, annualRate float64, termYears int) []models.DebtScheduleRow {
	if principal <= 0 || annualRate < 0 || termYears <= 0 {
		return []models.DebtScheduleRow{}
	}

	var payment float64
	if annualRate == 0 {
		payment = principal / float64(termYears)
	} else {
		payment = principal * annualRate / (1 - math.Pow(1+annualRate, -float64(termYears)))
	}

	rows := make([]models.DebtScheduleRow, 0, termYears)
	balance := principal
	for year := 1; year <= termYears; year++ {
		interest := balance * annualRate
		principalPaid := math.Min(balance, math.Max(0, payment-interest))
		balance -= principalPaid
		if balance < 0 {
			balance = 0
		}
		rows = append(rows, models.DebtScheduleRow{
			Year:          year,
			Interest:      interest,
			PrincipalPaid: principalPaid,
			TotalPayment:  interest + principalPaid,
			EndingBalance: balance,
		})
	}
	return rows
}

// BulletSchedule builds an interest-only schedule: every year pays interest
// on the full principal and the final year repays the principal in one
// balloon payment.
func BulletSchedule(principal, annualRate float64, termYears int) []models.DebtScheduleRow {
	if principal <= 0 || annualRate < 0 || termYears <= 0 {
		return []models.DebtScheduleRow{}
	}

	rows := make([]models.DebtScheduleRow, 0, termYears)
	for year := 1; year <= termYears; year++ {
		interest := principal * annualRate
		row := models.DebtScheduleRow{
			Year:          year,
			Interest:      interest,
			TotalPayment:  interest,
			EndingBalance: principal,
		}
		if year == termYears {
			row.PrincipalPaid = principal
			row.TotalPayment = interest + principal
			row.EndingBalance = 0
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildDebtSchedule dispatches on the project's amortization type. Anything
// that is not bullet amortizes as a French loan.
func BuildDebtSchedule(amortizationType string, principal, annualRate float64, termYears int) []models.DebtScheduleRow {
	if amortizationType == AmortizationBullet {
		return BulletSchedule(principal, annualRate, termYears)
	}
	return FrenchSchedule(principal, annualRate, termYears)
}
