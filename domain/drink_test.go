package domain

import (
	"drinkspeed/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_Uses_Category_Rate(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		category Category
		quantity int
		expected float64
	}{
		{Soju, 1, 1.0},
		{Soju, 3, 3.0},
		{Beer, 2, 0.6},
		{Somaek, 2, 1.3},
		{Makgeolli, 5, 2.0},
		{FruitSoju, 10, 7.0},
	}
	for _, tt := range tests {
		units, err := Normalize(tt.category, tt.quantity)
		req.NoError(err)
		req.InDelta(tt.expected, units, 1e-9, string(tt.category))
	}
}

func TestNormalize_Is_Linear_In_Quantity(t *testing.T) {
	req := require.New(t)

	for _, c := range Categories() {
		one, err := Normalize(c, 1)
		req.NoError(err)
		for q := 1; q <= 50; q++ {
			units, err := Normalize(c, q)
			req.NoError(err)
			req.InDelta(one*float64(q), units, 1e-9)

			again, _ := Normalize(c, q)
			req.Equal(units, again)
		}
	}
}

func TestNormalize_Rejects_Invalid_Input(t *testing.T) {
	req := require.New(t)

	_, err := Normalize(Soju, 0)
	req.ErrorIs(err, errors.ErrInvalidQuantity)
	req.ErrorIs(err, errors.ErrInvalidArgument)

	_, err = Normalize(Beer, -2)
	req.ErrorIs(err, errors.ErrInvalidQuantity)

	_, err = Normalize(Category("WINE"), 1)
	req.ErrorIs(err, errors.ErrInvalidCategory)
}

func TestParseCategory(t *testing.T) {
	req := require.New(t)

	c, err := ParseCategory(" fruit_soju ")
	req.NoError(err)
	req.Equal(FruitSoju, c)

	_, err = ParseCategory("whisky")
	req.ErrorIs(err, errors.ErrInvalidCategory)
}
