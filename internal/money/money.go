package money

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds an amount to paise (2 places) for display. Calculations keep full precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatINR formats an amount as rupees with Indian digit grouping, e.g. "₹1,23,456.50".
func FormatINR(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := Round(d.Abs()).StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	// digits + separators + sign + symbol + fraction
	b.Grow(len(intPart) + len(intPart)/2 + len(frac) + 6)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")

	if len(intPart) <= 3 {
		b.WriteString(intPart)
	} else {
		// The last three digits form one group, everything before it groups by two.
		head := intPart[:len(intPart)-3]
		rem := len(head) % 2
		if rem == 0 {
			rem = 2
		}
		b.WriteString(head[:rem])
		for i := rem; i < len(head); i += 2 {
			b.WriteByte(',')
			b.WriteString(head[i : i+2])
		}
		b.WriteByte(',')
		b.WriteString(intPart[len(intPart)-3:])
	}

	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Percent formats a percentage with two decimals, e.g. "12.50%".
func Percent(d decimal.Decimal) string {
	return Round(d).StringFixed(2) + "%"
}

// Coerce converts a loosely typed numeric value into a decimal.
// Missing, non-numeric, NaN and infinite values become zero.
func Coerce(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case float64:
		return fromFloat(n)
	case *float64:
		if n == nil {
			return decimal.Zero
		}
		return fromFloat(*n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case uint:
		return fromUint(uint64(n))
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case json.Number:
		return fromString(n.String())
	case string:
		return fromString(n)
	case *string:
		if n == nil {
			return decimal.Zero
		}
		return fromString(*n)
	case bool:
		if n {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return decimal.Zero
}

// CoerceInt converts v like Coerce and truncates it toward zero.
// It reports false, returning 0, when the whole part does not fit in an int.
func CoerceInt(v any) (int, bool) {
	b := Coerce(v).BigInt()
	if !b.IsInt64() {
		return 0, false
	}
	n := b.Int64()
	if n < math.MinInt || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
