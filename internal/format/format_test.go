package format

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParsePeso(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "symbol and separator", in: "₱2,500", want: "2500"},
		{name: "decimals", in: "₱1,200.50", want: "1200.5"},
		{name: "surrounding whitespace", in: "  ₱999 ", want: "999"},
		{name: "iso code", in: "PHP 5,000.00", want: "5000"},
		{name: "bare number", in: "150", want: "150"},
		{name: "millions", in: "₱1,000,000", want: "1000000"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePeso(tc.in)
			require.NoError(t, err)
			require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestParsePesoRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "₱", "free", "₱1.2.3"} {
		_, err := ParsePeso(in)
		require.Error(t, err, in)
		require.True(t, errors.Is(err, ErrInvalidAmount), in)
	}
}

func TestFmtPeso(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₱3,300.00", FmtPeso(decimal.NewFromInt(3300)))
	require.Equal(t, "₱0.00", FmtPeso(decimal.Zero))
	require.Equal(t, "₱999.99", FmtPeso(decimal.RequireFromString("999.994")))
	require.Equal(t, "₱1,234,567.10", FmtPeso(decimal.RequireFromString("1234567.1")))
	require.Equal(t, "-₱150.00", FmtPeso(decimal.NewFromInt(-150)))
}

func TestFmtPesoShort(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₱2,500", FmtPesoShort(decimal.NewFromInt(2500)))
	require.Equal(t, "₱999", FmtPesoShort(decimal.NewFromInt(999)))
	require.Equal(t, "₱1,200.50", FmtPesoShort(decimal.RequireFromString("1200.5")))
}

func TestFmtDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	require.Equal(t, "Feb 14, 2025", FmtDate(ts, "en"))
	require.Equal(t, "02/14/2025", FmtDate(ts, "fil"))
}
