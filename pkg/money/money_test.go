package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestString(t *testing.T) {
	tests := []struct {
		in   Amount
		want string
	}{
		{0, "₦0.00"},
		{5, "₦0.05"},
		{FromNaira(50_000), "₦50,000.00"},
		{Amount(12_345_678), "₦123,456.78"},
		{FromNaira(1_000_000), "₦1,000,000.00"},
		{-FromNaira(1_500), "-₦1,500.00"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Amount(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	a := FromNaira(120_000)
	if got := a.Percent(decimal.NewFromInt(5)); got != FromNaira(6_000) {
		t.Fatalf("5%% of 120,000 = %s", got)
	}
	// 10% of ₦0.05 is half a kobo; rounds away from zero
	if got := Amount(5).Percent(decimal.NewFromInt(10)); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestDivAndDivCeil(t *testing.T) {
	total := FromNaira(126_000)
	if got := total.Div(12); got != FromNaira(10_500) {
		t.Fatalf("Div = %s", got)
	}
	// 12,600,000 / 52 = 242307.69...
	if got := total.DivCeil(52); got != 242_308 {
		t.Fatalf("DivCeil = %d", got)
	}
	if got := total.Div(0); got != 0 {
		t.Fatalf("Div(0) = %d", got)
	}
}
