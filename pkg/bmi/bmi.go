// Package bmi provides body-mass-index helpers shared by dashboard views.
package bmi

import "math"

// Category buckets a BMI value for display.
type Category string

const (
	Underweight   Category = "underweight"
	Normal        Category = "normal"
	Overweight    Category = "overweight"
	Obese         Category = "obese"
	SeverelyObese Category = "severely_obese"
)

// Calculate returns the BMI for a weight in kilograms and a height in
// centimetres, rounded to one decimal place. Returns 0 when either input
// is missing.
func Calculate(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// Categorize maps a BMI value onto its display category.
func Categorize(v float64) Category {
	switch {
	case v < 18.5:
		return Underweight
	case v < 23:
		return Normal
	case v < 25:
		return Overweight
	case v < 30:
		return Obese
	default:
		return SeverelyObese
	}
}

// CharacterLevel maps a BMI value to the avatar level (1-5) used by the
// dashboard character.
func CharacterLevel(v float64) int {
	switch {
	case v < 17.0:
		return 1
	case v < 18.5:
		return 2
	case v < 23.0:
		return 3
	case v < 25.0:
		return 4
	default:
		return 5
	}
}
