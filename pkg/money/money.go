package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a naira value held in kobo (1 naira = 100 kobo).
type Amount int64

const koboPerNaira = 100

var hundred = decimal.NewFromInt(100)

func FromNaira(n int64) Amount { return Amount(n * koboPerNaira) }

// Percent returns pct% of a, rounded half away from zero to the nearest kobo.
func (a Amount) Percent(pct decimal.Decimal) Amount {
	v := decimal.NewFromInt(int64(a)).Mul(pct).Div(hundred).Round(0)
	return Amount(v.IntPart())
}

// Div splits a into n parts rounded to the nearest kobo.
func (a Amount) Div(n int) Amount {
	if n <= 0 {
		return 0
	}
	return Amount(decimal.NewFromInt(int64(a)).Div(decimal.NewFromInt(int64(n))).Round(0).IntPart())
}

// DivCeil splits a into n parts rounding up, so n installments never fall short.
func (a Amount) DivCeil(n int) Amount {
	if n <= 0 {
		return 0
	}
	return Amount(decimal.NewFromInt(int64(a)).Div(decimal.NewFromInt(int64(n))).Ceil().IntPart())
}

func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// String renders the amount as "₦1,234.56".
func (a Amount) String() string {
	neg := a < 0
	k := int64(a)
	if neg {
		k = -k
	}
	whole := strconv.FormatInt(k/koboPerNaira, 10)
	frac := k % koboPerNaira

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₦")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}
