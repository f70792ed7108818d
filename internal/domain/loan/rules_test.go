package loan

import (
	"testing"
	"time"

	"coop-lending/pkg/money"

	"github.com/shopspring/decimal"
)

func TestRequiredGuarantors(t *testing.T) {
	tests := []struct {
		name                 string
		borrower, g1, amount money.Amount
		want                 int
	}{
		{"combined below amount", money.FromNaira(10_000), money.FromNaira(30_000), money.FromNaira(50_000), 2},
		{"combined above amount", money.FromNaira(10_000), money.FromNaira(45_000), money.FromNaira(50_000), 1},
		{"combined exactly amount", money.FromNaira(20_000), money.FromNaira(30_000), money.FromNaira(50_000), 1},
		{"one kobo short", money.FromNaira(20_000), money.FromNaira(30_000) - 1, money.FromNaira(50_000), 2},
		{"zero balances", 0, 0, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequiredGuarantors(tt.borrower, tt.g1, tt.amount); got != tt.want {
				t.Fatalf("RequiredGuarantors = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateTerms_FlatFivePercent(t *testing.T) {
	got := CalculateTerms(money.FromNaira(120_000), 12, decimal.NewFromInt(DefaultInterestRatePercent))
	if got.InterestAmount != money.FromNaira(6_000) {
		t.Errorf("interest = %s", got.InterestAmount)
	}
	if got.TotalAmount != money.FromNaira(126_000) {
		t.Errorf("total = %s", got.TotalAmount)
	}
	if got.MonthlyPayment != money.FromNaira(10_500) {
		t.Errorf("monthly = %s", got.MonthlyPayment)
	}
	if got.Weeks != 52 {
		t.Errorf("weeks = %d", got.Weeks)
	}
	if money.Amount(got.Weeks)*got.WeeklyPayment < got.TotalAmount {
		t.Errorf("weekly installments %s x %d do not cover total %s", got.WeeklyPayment, got.Weeks, got.TotalAmount)
	}
}

func TestValidDuration(t *testing.T) {
	for _, m := range []int{6, 12, 18, 24} {
		if !ValidDuration(m) {
			t.Errorf("ValidDuration(%d) = false", m)
		}
	}
	for _, m := range []int{0, 3, 9, 36} {
		if ValidDuration(m) {
			t.Errorf("ValidDuration(%d) = true", m)
		}
	}
}

func TestFinePeriod(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	grace := 3 * 24 * time.Hour
	if p := FinePeriod(due, grace, due.Add(2*24*time.Hour)); p != -1 {
		t.Fatalf("inside grace: period = %d", p)
	}
	if p := FinePeriod(due, grace, due.Add(4*24*time.Hour)); p != 0 {
		t.Fatalf("first week: period = %d", p)
	}
	if p := FinePeriod(due, grace, due.Add(grace+15*24*time.Hour)); p != 2 {
		t.Fatalf("third week: period = %d", p)
	}
}

func TestIsOverdueAndAllAccepted(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	next := now.Add(-4 * 24 * time.Hour)
	l := &Loan{Status: StatusApproved, NextPaymentDate: &next}
	if !l.IsOverdue(now, 3*24*time.Hour) {
		t.Fatal("want overdue")
	}
	if l.IsOverdue(now, 5*24*time.Hour) {
		t.Fatal("want not overdue inside grace")
	}
	l.Status = StatusPending
	if l.IsOverdue(now, 0) {
		t.Fatal("pending loan cannot be overdue")
	}

	if l.AllGuarantorsAccepted() {
		t.Fatal("no guarantors must not count as accepted")
	}
	l.Guarantors = []Guarantor{{MemberID: "a", Status: GuarantorAccepted}, {MemberID: "b", Status: GuarantorPending}}
	if l.AllGuarantorsAccepted() {
		t.Fatal("pending guarantor must block")
	}
	l.Guarantor("b").Status = GuarantorAccepted
	if !l.AllGuarantorsAccepted() {
		t.Fatal("want all accepted")
	}
}
