package rating

import "github.com/yourusername/football-elo/internal/models"

// RatingOrDefault is the single fallback policy for teams without a rating
// on record. Every caller that tolerates an unrated team must go through
// this rather than defaulting inline.
func RatingOrDefault(ratings map[string]float64, team string) float64 {
	if r, ok := ratings[team]; ok {
		return r
	}
	return models.InitialRating
}
