package models

import "fmt"

// K-cap band keys. Each key is the upper threshold of a rating band; a team
// whose rating falls below a threshold uses that band's cap. Ratings below
// 1500 share the "1400" cap (intentional tiering carried over from the
// calibration data), ratings of 1700 and above use the "1700" cap.
const (
	BandSub1500 = "1400"
	Band1500    = "1500"
	Band1600    = "1600"
	BandTop     = "1700"
)

var requiredBands = []string{BandSub1500, Band1500, Band1600, BandTop}

// ParameterSet holds the tunable constants of the rating model. It is
// read-only during a computation; an external admin process may change it
// between runs.
type ParameterSet struct {
	BaseKFactor   float64            `json:"base_k_factor" validate:"required,gt=0"`
	KCaps         map[string]float64 `json:"k_caps" validate:"required"`
	HomeAdvantage float64            `json:"avg_home_advantage" validate:"gte=0"`
	DrawBaseline  float64            `json:"draw_baseline" validate:"required,gt=0,lt=1"`
}

// KCapFor selects the maximum K value for a team's current rating. A missing
// band entry is a configuration error and is surfaced, never defaulted.
func (p *ParameterSet) KCapFor(rating float64) (float64, error) {
	var band string
	switch {
	case rating < 1500:
		band = BandSub1500
	case rating < 1600:
		band = Band1500
	case rating < 1700:
		band = Band1600
	default:
		band = BandTop
	}

	cap, ok := p.KCaps[band]
	if !ok {
		return 0, fmt.Errorf("%w: band %s (rating %.1f)", ErrMissingKCap, band, rating)
	}
	return cap, nil
}

// Validate checks the parameter set is complete enough for the engines to run.
func (p *ParameterSet) Validate() error {
	if p.BaseKFactor <= 0 {
		return fmt.Errorf("%w: base K-factor must be positive", ErrMissingParams)
	}
	if p.DrawBaseline <= 0 || p.DrawBaseline >= 1 {
		return fmt.Errorf("%w: draw baseline must be in (0,1)", ErrMissingParams)
	}
	if p.HomeAdvantage < 0 {
		return fmt.Errorf("%w: home advantage must be non-negative", ErrMissingParams)
	}
	for _, band := range requiredBands {
		if _, ok := p.KCaps[band]; !ok {
			return fmt.Errorf("%w: band %s", ErrMissingKCap, band)
		}
	}
	return nil
}

// DefaultParameterSet returns the parameter values fitted against the
// 2024-25 baseline season.
func DefaultParameterSet() *ParameterSet {
	return &ParameterSet{
		BaseKFactor: 20,
		KCaps: map[string]float64{
			BandSub1500: 75,
			Band1500:    60,
			Band1600:    50,
			BandTop:     40,
		},
		HomeAdvantage: 46.8,
		DrawBaseline:  0.2494,
	}
}
