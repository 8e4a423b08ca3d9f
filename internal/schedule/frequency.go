package schedule

import (
	"errors"
	"fmt"

	"github.com/aibek/estate-leases/internal/model"
)

// ErrInvalidDivision means the contract duration is not a whole number of
// billing periods. Fractional periods are an authoring error and are never
// rounded away.
var ErrInvalidDivision = errors.New("duration is not divisible by the billing period")

// PeriodLengthMonths returns the fixed period length for a frequency.
func PeriodLengthMonths(f model.PaymentFrequency) int {
	switch f {
	case model.FrequencyQuarterly:
		return 3
	case model.FrequencySemiAnnually:
		return 6
	case model.FrequencyAnnually:
		return 12
	default:
		return 1
	}
}

// ValidFrequency reports whether f is one of the supported frequencies.
func ValidFrequency(f model.PaymentFrequency) bool {
	switch f {
	case model.FrequencyMonthly, model.FrequencyQuarterly,
		model.FrequencySemiAnnually, model.FrequencyAnnually:
		return true
	}
	return false
}

// IsValidDuration reports whether durationMonths splits evenly into whole
// periods of the given frequency. Monthly accepts any positive duration.
func IsValidDuration(durationMonths int, f model.PaymentFrequency) bool {
	if durationMonths <= 0 {
		return false
	}
	return durationMonths%PeriodLengthMonths(f) == 0
}

// PeriodCount returns the number of billing periods in durationMonths, or
// ErrInvalidDivision when the duration does not divide evenly.
func PeriodCount(durationMonths int, f model.PaymentFrequency) (int, error) {
	if !IsValidDuration(durationMonths, f) {
		return 0, fmt.Errorf("%w: %d months at %s", ErrInvalidDivision, durationMonths, f)
	}
	return durationMonths / PeriodLengthMonths(f), nil
}
