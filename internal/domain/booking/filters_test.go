package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersNormalized(t *testing.T) {
	f := Filters{
		City:     "  Faraya ",
		Village:  "KFARDEBIAN",
		Bedrooms: -1,
		Guests:   -3,
		PriceMin: -50,
		PriceMax: 200,
		Features: []string{" Pool ", "pool", "", "Sauna"},
	}
	n := f.Normalized()
	assert.Equal(t, "faraya", n.City)
	assert.Equal(t, "kfardebian", n.Village)
	assert.Equal(t, 0, n.Bedrooms)
	assert.Equal(t, 0, n.Guests)
	assert.Equal(t, 0.0, n.PriceMin)
	assert.Equal(t, 200.0, n.PriceMax)
	assert.Equal(t, []string{"pool", "sauna"}, n.Features)
}

func TestFiltersNormalizedDropsInvertedPriceBand(t *testing.T) {
	n := Filters{PriceMin: 500, PriceMax: 100}.Normalized()
	assert.Equal(t, 500.0, n.PriceMin)
	assert.Equal(t, 0.0, n.PriceMax)
}

func TestFiltersNormalizedDoesNotMutateReceiver(t *testing.T) {
	f := Filters{City: "  Faraya "}
	_ = f.Normalized()
	assert.Equal(t, "  Faraya ", f.City)
}

func TestFiltersIsZero(t *testing.T) {
	assert.True(t, Filters{}.IsZero())
	assert.False(t, Filters{City: "faraya"}.IsZero())
	assert.False(t, Filters{Guests: 2}.IsZero())
	assert.False(t, Filters{Features: []string{"pool"}}.IsZero())
}
