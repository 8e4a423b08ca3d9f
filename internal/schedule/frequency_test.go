package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek/estate-leases/internal/model"
)

func TestPeriodLengthMonths(t *testing.T) {
	assert.Equal(t, 1, PeriodLengthMonths(model.FrequencyMonthly))
	assert.Equal(t, 3, PeriodLengthMonths(model.FrequencyQuarterly))
	assert.Equal(t, 6, PeriodLengthMonths(model.FrequencySemiAnnually))
	assert.Equal(t, 12, PeriodLengthMonths(model.FrequencyAnnually))
}

func TestIsValidDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		freq     model.PaymentFrequency
		want     bool
	}{
		{"monthly accepts any positive duration", 7, model.FrequencyMonthly, true},
		{"monthly single month", 1, model.FrequencyMonthly, true},
		{"quarterly even", 12, model.FrequencyQuarterly, true},
		{"quarterly uneven", 7, model.FrequencyQuarterly, false},
		{"semi-annual even", 18, model.FrequencySemiAnnually, true},
		{"semi-annual uneven", 7, model.FrequencySemiAnnually, false},
		{"annual even", 24, model.FrequencyAnnually, true},
		{"annual uneven", 18, model.FrequencyAnnually, false},
		{"zero duration", 0, model.FrequencyMonthly, false},
		{"negative duration", -3, model.FrequencyQuarterly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDuration(tt.duration, tt.freq))
		})
	}
}

func TestPeriodCount(t *testing.T) {
	tests := []struct {
		duration int
		freq     model.PaymentFrequency
		want     int
	}{
		{12, model.FrequencyMonthly, 12},
		{12, model.FrequencyQuarterly, 4},
		{12, model.FrequencySemiAnnually, 2},
		{12, model.FrequencyAnnually, 1},
	}
	for _, tt := range tests {
		got, err := PeriodCount(tt.duration, tt.freq)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPeriodCountInvalidDivision(t *testing.T) {
	_, err := PeriodCount(7, model.FrequencyQuarterly)
	assert.ErrorIs(t, err, ErrInvalidDivision)

	_, err = PeriodCount(7, model.FrequencySemiAnnually)
	assert.ErrorIs(t, err, ErrInvalidDivision)

	_, err = PeriodCount(0, model.FrequencyMonthly)
	assert.ErrorIs(t, err, ErrInvalidDivision)
}
