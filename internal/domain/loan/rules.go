package loan

import (
	"time"

	"coop-lending/pkg/money"

	"github.com/shopspring/decimal"
)

const (
	// Week is the installment interval.
	Week = 7 * 24 * time.Hour

	DefaultInterestRatePercent = 5
)

var allowedDurations = map[int]bool{6: true, 12: true, 18: true, 24: true}

func ValidDuration(months int) bool { return allowedDurations[months] }

// RequiredGuarantors applies the combined savings rule: one guarantor is enough
// when borrower and first guarantor savings together cover the amount.
func RequiredGuarantors(borrowerBalance, guarantor1Balance, amount money.Amount) int {
	if borrowerBalance+guarantor1Balance >= amount {
		return 1
	}
	return 2
}

type Terms struct {
	Amount         money.Amount `json:"amount"`
	DurationMonths int          `json:"duration_months"`
	InterestAmount money.Amount `json:"interest_amount"`
	TotalAmount    money.Amount `json:"total_amount"`
	MonthlyPayment money.Amount `json:"monthly_payment"`
	Weeks          int          `json:"weeks"`
	WeeklyPayment  money.Amount `json:"weekly_payment"`
}

// CalculateTerms uses flat interest on the principal.
func CalculateTerms(amount money.Amount, months int, ratePercent decimal.Decimal) Terms {
	interest := amount.Percent(ratePercent)
	total := amount + interest
	weeks := months * 52 / 12
	return Terms{
		Amount:         amount,
		DurationMonths: months,
		InterestAmount: interest,
		TotalAmount:    total,
		MonthlyPayment: total.Div(months),
		Weeks:          weeks,
		WeeklyPayment:  total.DivCeil(weeks),
	}
}

// FinePeriod is the zero-based count of whole weeks since the grace period ended.
func FinePeriod(due time.Time, grace time.Duration, now time.Time) int {
	late := now.Sub(due.Add(grace))
	if late <= 0 {
		return -1
	}
	return int(late / Week)
}
