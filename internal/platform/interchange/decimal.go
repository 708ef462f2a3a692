package interchange

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a monetary amount with exactly two fractional digits, held as
// a count of hundredths.
type Decimal int64

// ErrOverflow is returned when an amount does not fit in a Decimal.
var ErrOverflow = errors.New("amount out of range")

const maxWhole = (math.MaxInt64 - 99) / 100

func Cents(n int64) Decimal { return Decimal(n) }

// ParseDecimal parses amounts such as "12", "0.15" or "-3.5". More than
// two fractional digits is an error rather than a silent rounding.
func ParseDecimal(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: at most two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("invalid amount %q: %w", s, ErrOverflow)
		}
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if w > maxWhole {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrOverflow)
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := int64(w)*100 + int64(f)
	if neg {
		cents = -cents
	}
	return Decimal(cents), nil
}

func (d Decimal) Cents() int64 { return int64(d) }

// Mul multiplies the amount by an integer quantity.
func (d Decimal) Mul(qty int) (Decimal, error) {
	if d == 0 || qty == 0 {
		return 0, nil
	}
	p := int64(d) * int64(qty)
	if p/int64(qty) != int64(d) || (qty == -1 && int64(d) == math.MinInt64) {
		return 0, ErrOverflow
	}
	return Decimal(p), nil
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	sum := d + o
	if (o > 0 && sum < d) || (o < 0 && sum > d) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Percent returns pct percent of d, rounded half away from zero.
// pct is expected to lie in [0, 100], which keeps the result within range.
func (d Decimal) Percent(pct int) Decimal {
	whole := int64(d) / 100 * int64(pct)
	rem := int64(d) % 100 * int64(pct)
	if rem >= 0 {
		return Decimal(whole + (rem+50)/100)
	}
	return Decimal(whole + (rem-50)/100)
}

func (d Decimal) String() string {
	v := int64(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
