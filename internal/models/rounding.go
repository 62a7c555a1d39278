package models

import "github.com/shopspring/decimal"

// Ratings are stored to one decimal place and probabilities to four.
// Rounding goes through decimal arithmetic so the stored values are exact
// rather than the nearest representable float of an intermediate product.

// RoundRating rounds a rating or rating delta to one decimal place.
func RoundRating(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

// RoundProbability rounds a probability to four decimal places.
func RoundProbability(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}
