package catalogue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustClick(t *testing.T, s string) Click {
	t.Helper()
	c, err := ParseClick(s)
	require.NoError(t, err)
	return c
}

func TestParseClick(t *testing.T) {
	t.Parallel()

	require.Equal(t, Click{Kind: ClickTrigger, Menu: MenuPrice}, mustClick(t, "trigger:price"))
	require.Equal(t, Click{Kind: ClickOption, Menu: MenuPrice, Value: "1000-2000"}, mustClick(t, "option:price:1000-2000"))
	require.Equal(t, Click{Kind: ClickOutside}, mustClick(t, "outside"))
	require.Equal(t, Click{}, mustClick(t, ""))
	require.Equal(t, "option:sort:price-asc", mustClick(t, "option:sort:price-asc").String())

	for _, bad := range []string{"trigger:colour", "option:price", "hover:price", "option:size:xl"} {
		_, err := ParseClick(bad)
		require.ErrorIs(t, err, ErrUnknownValue, bad)
	}
}

func TestTriggerTogglesOnlyItsMenu(t *testing.T) {
	t.Parallel()
	ms := ParseMenuState("sort")
	st := DefaultState()

	commit, err := ms.Click(mustClick(t, "trigger:price"), &st)
	require.NoError(t, err)
	require.False(t, commit)
	require.True(t, ms.Open(MenuPrice))
	require.True(t, ms.Open(MenuSort))
	require.Equal(t, "price,sort", ms.Encode())

	_, err = ms.Click(mustClick(t, "trigger:price"), &st)
	require.NoError(t, err)
	require.False(t, ms.Open(MenuPrice))
	require.True(t, ms.Open(MenuSort))
}

func TestOptionCommitsAndClosesItsMenu(t *testing.T) {
	t.Parallel()
	ms := ParseMenuState("price,availability")
	st := DefaultState()

	commit, err := ms.Click(mustClick(t, "option:price:1000-2000"), &st)
	require.NoError(t, err)
	require.True(t, commit)
	require.Equal(t, Price1000To2000, st.PriceRange)
	require.False(t, ms.Open(MenuPrice))
	require.True(t, ms.Open(MenuAvailability), "outside closer does not run for option clicks")

	commit, err = ms.Click(mustClick(t, "option:sort:price-asc"), &st)
	require.NoError(t, err)
	require.True(t, commit)
	require.Equal(t, SortPriceAsc, st.Sort)
	require.Equal(t, "price-asc", st.Selected(MenuSort))
}

func TestOptionRejectsUnknownValue(t *testing.T) {
	t.Parallel()
	ms := ParseMenuState("price")
	st := DefaultState()

	commit, err := ms.Click(Click{Kind: ClickOption, Menu: MenuPrice, Value: "cheap"}, &st)
	require.ErrorIs(t, err, ErrUnknownValue)
	require.False(t, commit)
	require.Equal(t, DefaultState(), st)
	require.True(t, ms.Open(MenuPrice))
}

func TestOutsideClosesAll(t *testing.T) {
	t.Parallel()
	ms := ParseMenuState("price,sort,bogus")
	st := DefaultState()

	_, err := ms.Click(mustClick(t, "outside"), &st)
	require.NoError(t, err)
	require.Empty(t, ms.Encode())
}

func TestOptionsListMenus(t *testing.T) {
	t.Parallel()

	require.Equal(t, PriceRangeKeys, Options(MenuPrice))
	require.Equal(t, []string{"name-asc", "name-desc", "price-asc", "price-desc", "newest"}, Options(MenuSort))
}
