package measure

import (
	"fmt"
	"strings"
)

// Category classifies what a unit measures.
type Category string

const (
	CategoryVolume  Category = "volume"
	CategoryWeight  Category = "weight"
	CategoryCount   Category = "count"
	CategorySpecial Category = "special"
)

// System is a measurement system preference for display. Count and special
// units belong to no system.
type System string

const (
	SystemUS     System = "us"
	SystemMetric System = "metric"
	SystemNone   System = "none"
)

// Unit is a cooking measurement unit.
type Unit string

const (
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	FluidOunce Unit = "fl-oz"
	Cup        Unit = "cup"
	Pint       Unit = "pint"
	Quart      Unit = "quart"
	Gallon     Unit = "gallon"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Piece      Unit = "piece"
	Dozen      Unit = "dozen"
	Pinch      Unit = "pinch"
	Dash       Unit = "dash"
	ToTaste    Unit = "to-taste"
)

// Units returns every known unit.
func Units() []Unit {
	return []Unit{
		Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart, Gallon,
		Milliliter, Liter,
		Ounce, Pound, Gram, Kilogram,
		Piece, Dozen,
		Pinch, Dash, ToTaste,
	}
}

// Category returns the measurement category of the unit.
func (u Unit) Category() Category {
	switch u {
	case Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart, Gallon, Milliliter, Liter:
		return CategoryVolume
	case Ounce, Pound, Gram, Kilogram:
		return CategoryWeight
	case Piece, Dozen:
		return CategoryCount
	default:
		return CategorySpecial
	}
}

// System returns the measurement system the unit belongs to, or SystemNone
// for count and special units.
func (u Unit) System() System {
	switch u {
	case Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart, Gallon, Ounce, Pound:
		return SystemUS
	case Milliliter, Liter, Gram, Kilogram:
		return SystemMetric
	default:
		return SystemNone
	}
}

// unitAliases maps common long-form spellings to their canonical unit.
var unitAliases = map[string]Unit{
	"teaspoon":    Teaspoon,
	"tablespoon":  Tablespoon,
	"fluid-ounce": FluidOunce,
	"fl oz":       FluidOunce,
	"floz":        FluidOunce,
	"milliliter":  Milliliter,
	"liter":       Liter,
	"ounce":       Ounce,
	"pound":       Pound,
	"lbs":         Pound,
	"gram":        Gram,
	"kilogram":    Kilogram,
	"pc":          Piece,
}

// ParseUnit resolves a unit string to its canonical Unit value.
func ParseUnit(s string) (Unit, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := unitAliases[normalized]; ok {
		return alias, nil
	}
	u := Unit(normalized)
	for _, known := range Units() {
		if u == known {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// ParseSystem resolves a system string; an empty string means no preference.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SystemNone, nil
	case "us":
		return SystemUS, nil
	case "metric":
		return SystemMetric, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
	Category string  `json:"category,omitempty"`
}
