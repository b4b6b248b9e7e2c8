// Package domain contains the core concepts of a drinking session.
// This file defines drink categories and the soju-equivalent conversion table.
// No runtime, network or storage logic should be added here.
package domain

import (
	"drinkspeed/errors"
	"fmt"
	"strings"
)

// Category is the closed set of drinks a participant can log.
type Category string

const (
	Soju      Category = "SOJU"
	Beer      Category = "BEER"
	Somaek    Category = "SOMAEK"
	Makgeolli Category = "MAKGEOLLI"
	FruitSoju Category = "FRUIT_SOJU"
)

// conversionRates gives the soju-equivalent glasses of one glass of each category.
// A glass of soju (50ml, 17%) is the base unit.
var conversionRates = map[Category]float64{
	Soju:      1.0,
	Beer:      0.3,  // 500ml, 4.5%
	Somaek:    0.65, // soju + beer mix
	Makgeolli: 0.4,  // 300ml, 6%
	FruitSoju: 0.7,  // 13%
}

var categories = []Category{Soju, Beer, Somaek, Makgeolli, FruitSoju}

// Categories lists every drink category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts a category name in any case, e.g. "beer" or "FRUIT_SOJU".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := conversionRates[c]
	return ok
}

// Rate returns the conversion rate of the category, 0 for unknown categories.
func (c Category) Rate() float64 {
	return conversionRates[c]
}

// Normalize converts a quantity of glasses into soju-equivalent units.
// The result is linear in quantity. Zero or negative quantities are rejected, never clamped.
func Normalize(category Category, quantity int) (float64, error) {
	rate, ok := conversionRates[category]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errors.ErrInvalidCategory, category)
	}
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: got %d", errors.ErrInvalidQuantity, quantity)
	}
	return rate * float64(quantity), nil
}
