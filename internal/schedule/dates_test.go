package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsShortMonths(t *testing.T) {
	// time.AddDate would roll Jan 31 + 1 month into March.
	assert.Equal(t, date(2024, time.February, 29), AddMonths(date(2024, time.January, 31), 1))
	assert.Equal(t, date(2023, time.February, 28), AddMonths(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2024, time.April, 30), AddMonths(date(2024, time.January, 31), 3))
}

func TestAddMonthsPlainCases(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 1), AddMonths(date(2024, time.January, 1), 1))
	assert.Equal(t, date(2025, time.January, 15), AddMonths(date(2024, time.January, 15), 12))
	assert.Equal(t, date(2024, time.July, 10), AddMonths(date(2024, time.April, 10), 3))
}

func TestAddMonthsAnchorRecovers(t *testing.T) {
	// Each step is computed from the anchor, so the day of month comes back
	// after a clamped February.
	anchor := date(2024, time.January, 31)
	assert.Equal(t, date(2024, time.March, 31), AddMonths(anchor, 2))
}

func TestContractEndDate(t *testing.T) {
	assert.Equal(t, date(2024, time.June, 30), ContractEndDate(date(2024, time.January, 1), 6))
	assert.Equal(t, date(2024, time.December, 31), ContractEndDate(date(2024, time.January, 1), 12))
	assert.Equal(t, date(2025, time.January, 14), ContractEndDate(date(2024, time.January, 15), 12))
}

func TestMonthsCovered(t *testing.T) {
	start := date(2024, time.January, 1)
	assert.Equal(t, 3, MonthsCovered(start, date(2024, time.March, 31)))
	assert.Equal(t, 1, MonthsCovered(start, date(2024, time.January, 31)))
	assert.Equal(t, 12, MonthsCovered(start, date(2024, time.December, 31)))

	// Mid-month anchor.
	assert.Equal(t, 3, MonthsCovered(date(2024, time.January, 15), date(2024, time.April, 14)))

	// Clamped anchor: Jan 31 start, first period ends Feb 28.
	assert.Equal(t, 1, MonthsCovered(date(2024, time.January, 31), date(2024, time.February, 28)))
}
