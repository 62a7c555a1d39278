package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKCapForBands(t *testing.T) {
	params := DefaultParameterSet()

	tests := []struct {
		rating float64
		cap    float64
	}{
		{1350, 75}, // sub-1400 shares the "1400" cap
		{1450, 75},
		{1499.9, 75},
		{1500, 60},
		{1599.9, 60},
		{1600, 50},
		{1699.9, 50},
		{1700, 40},
		{1850, 40},
	}
	for _, tt := range tests {
		cap, err := params.KCapFor(tt.rating)
		require.NoError(t, err, "rating %.1f", tt.rating)
		assert.Equal(t, tt.cap, cap, "rating %.1f", tt.rating)
	}
}

func TestKCapForMissingBand(t *testing.T) {
	params := DefaultParameterSet()
	delete(params.KCaps, Band1600)

	_, err := params.KCapFor(1650)
	assert.ErrorIs(t, err, ErrMissingKCap)

	// Other bands still resolve.
	_, err = params.KCapFor(1550)
	assert.NoError(t, err)
}

func TestParameterSetValidate(t *testing.T) {
	assert.NoError(t, DefaultParameterSet().Validate())

	broken := DefaultParameterSet()
	broken.BaseKFactor = 0
	assert.ErrorIs(t, broken.Validate(), ErrMissingParams)

	broken = DefaultParameterSet()
	broken.DrawBaseline = 1.2
	assert.ErrorIs(t, broken.Validate(), ErrMissingParams)

	broken = DefaultParameterSet()
	delete(broken.KCaps, BandSub1500)
	assert.ErrorIs(t, broken.Validate(), ErrMissingKCap)
}

func TestDefaultParameterSet(t *testing.T) {
	params := DefaultParameterSet()

	assert.Equal(t, 20.0, params.BaseKFactor)
	assert.Equal(t, 46.8, params.HomeAdvantage)
	assert.Equal(t, 0.2494, params.DrawBaseline)
	assert.Len(t, params.KCaps, 4)
}
