package format

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PesoSymbol prefixes every displayed amount.
const PesoSymbol = "₱"

// ErrInvalidAmount is returned when a currency string does not contain a number.
var ErrInvalidAmount = errors.New("format: invalid amount")

// ParsePeso extracts the numeric amount from a display price such as "₱1,200.50".
// The currency symbol and thousands separators are stripped; an optional "PHP" code is tolerated.
func ParsePeso(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, PesoSymbol, "")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)
	if len(raw) >= 3 && strings.EqualFold(raw[:3], "PHP") {
		raw = strings.TrimSpace(raw[3:])
	}
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// FmtPeso formats an amount with two decimals, e.g. FmtPeso(3300) => "₱3,300.00".
// Rounding happens here only; callers keep unrounded values.
func FmtPeso(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	whole, frac, _ := strings.Cut(fixed, ".")
	out := PesoSymbol + thousandSep(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FmtPesoShort drops a zero fraction, which is how catalogue cards show prices ("₱2,500").
func FmtPesoShort(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		s := d.Truncate(0).String()
		if strings.HasPrefix(s, "-") {
			return "-" + PesoSymbol + thousandSep(s[1:])
		}
		return PesoSymbol + thousandSep(s)
	}
	return FmtPeso(d)
}

func thousandSep(digits string) string {
	var b strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FmtDate formats time in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "fil":
		return t.Format("01/02/2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}
