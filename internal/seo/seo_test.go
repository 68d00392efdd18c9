package seo

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestItemListOffers(t *testing.T) {
	t.Parallel()

	list := ItemList([]ProductInfo{
		{SKU: "tulip-trio", Name: "Tulip Trio", Price: decimal.NewFromInt(999), Availability: "low-stock"},
		{SKU: "mystery", Name: "Mystery", Price: decimal.NewFromInt(10)},
	})
	var got struct {
		NumberOfItems int `json:"numberOfItems"`
		Items         []struct {
			Position int `json:"position"`
			Item     struct {
				Offers map[string]string `json:"offers"`
			} `json:"item"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(JSON(list)), &got))
	require.Equal(t, 2, got.NumberOfItems)
	require.Equal(t, "999.00", got.Items[0].Item.Offers["price"])
	require.Equal(t, "https://schema.org/LimitedAvailability", got.Items[0].Item.Offers["availability"])
	require.NotContains(t, got.Items[1].Item.Offers, "availability")
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	m := NewMeta("Your Cart", "Flor", "Review", "https://flor.example/cart")
	require.Equal(t, "Your Cart | Flor", m.Title)
	require.Equal(t, "Flor", m.OG.SiteName)
	require.Equal(t, "https://flor.example/cart", m.OG.URL)

	m.AddJSONLD(BreadcrumbList([]BreadcrumbItem{{Name: "Shop", Item: "https://flor.example/"}}))
	require.Len(t, m.JSONLD, 1)
	m.AddJSONLD(func() {})
	require.Len(t, m.JSONLD, 1)
}
