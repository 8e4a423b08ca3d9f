package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibek/estate-leases/internal/model"
)

func tenancyContract(start time.Time, durationMonths int, freq model.PaymentFrequency, rate int64) model.Contract {
	unitID := uuid.New()
	return model.Contract{
		ID:             uuid.New(),
		Kind:           model.ContractKindTenancy,
		UnitID:         &unitID,
		StartDate:      start,
		EndDate:        ContractEndDate(start, durationMonths),
		DurationMonths: durationMonths,
		Frequency:      freq,
		Rate:           decimal.NewFromInt(rate),
		Status:         model.ContractStatusActive,
	}
}

func TestBuildMonthlyTenancy(t *testing.T) {
	c := tenancyContract(date(2024, time.January, 1), 6, model.FrequencyMonthly, 1000)

	items, err := Build(BuildInput{Contract: c})
	require.NoError(t, err)
	require.Len(t, items, 6)

	wantPeriods := [][2]time.Time{
		{date(2024, time.January, 1), date(2024, time.January, 31)},
		{date(2024, time.February, 1), date(2024, time.February, 29)},
		{date(2024, time.March, 1), date(2024, time.March, 31)},
		{date(2024, time.April, 1), date(2024, time.April, 30)},
		{date(2024, time.May, 1), date(2024, time.May, 31)},
		{date(2024, time.June, 1), date(2024, time.June, 30)},
	}
	for i, item := range items {
		assert.Equal(t, wantPeriods[i][0], item.DuePeriodStart, "period %d start", i)
		assert.Equal(t, wantPeriods[i][1], item.DuePeriodEnd, "period %d end", i)
		assert.True(t, item.Amount.Equal(decimal.NewFromInt(1000)), "period %d amount", i)
		assert.Equal(t, model.PaymentKindCollection, item.Kind)
		assert.Nil(t, item.SettlementDate)
	}
}

func TestBuildQuarterlyAmountIsFlatProration(t *testing.T) {
	c := tenancyContract(date(2024, time.January, 1), 12, model.FrequencyQuarterly, 1000)

	items, err := Build(BuildInput{Contract: c})
	require.NoError(t, err)
	require.Len(t, items, 4)

	// A quarter is always exactly 3x the monthly rate, regardless of the
	// actual days in the months spanned.
	for _, item := range items {
		assert.True(t, item.Amount.Equal(decimal.NewFromInt(3000)))
	}
}

func TestBuildTilesContractTermExactly(t *testing.T) {
	freqs := []model.PaymentFrequency{
		model.FrequencyMonthly,
		model.FrequencyQuarterly,
		model.FrequencySemiAnnually,
		model.FrequencyAnnually,
	}
	starts := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2023, time.November, 15),
		date(2024, time.February, 29),
	}
	for _, freq := range freqs {
		for _, start := range starts {
			c := tenancyContract(start, 24, freq, 500)
			items, err := Build(BuildInput{Contract: c})
			require.NoError(t, err)

			count, err := PeriodCount(24, freq)
			require.NoError(t, err)
			require.Len(t, items, count)

			// No gaps, no overlaps: each period starts the day after the
			// previous one ends, first starts at the contract start, last
			// ends at the contract end.
			assert.Equal(t, c.StartDate, items[0].DuePeriodStart)
			assert.Equal(t, c.EndDate, items[len(items)-1].DuePeriodEnd)
			for i := 1; i < len(items); i++ {
				assert.Equal(t,
					items[i-1].DuePeriodEnd.AddDate(0, 0, 1),
					items[i].DuePeriodStart,
					"freq %s start %s period %d", freq, start, i)
			}
		}
	}
}

func TestBuildRejectsUnevenDuration(t *testing.T) {
	c := tenancyContract(date(2024, time.January, 1), 7, model.FrequencyQuarterly, 1000)
	_, err := Build(BuildInput{Contract: c})
	assert.ErrorIs(t, err, ErrInvalidDivision)
}

func TestBuildFromMonthOffset(t *testing.T) {
	// Reschedule scenario: 12-month monthly contract, 3 months honored,
	// 6 additional months at quarterly.
	c := tenancyContract(date(2024, time.January, 1), 9, model.FrequencyQuarterly, 1000)
	items, err := Build(BuildInput{Contract: c, FromMonthOffset: 3})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, date(2024, time.April, 1), items[0].DuePeriodStart)
	assert.Equal(t, date(2024, time.June, 30), items[0].DuePeriodEnd)
	assert.Equal(t, date(2024, time.July, 1), items[1].DuePeriodStart)
	assert.Equal(t, date(2024, time.September, 30), items[1].DuePeriodEnd)
}

func TestBuildSupplySchedule(t *testing.T) {
	propertyID := uuid.New()
	ownerID := uuid.New()
	c := model.Contract{
		ID:             uuid.New(),
		Kind:           model.ContractKindOwnership,
		PropertyID:     &propertyID,
		OwnerID:        &ownerID,
		StartDate:      date(2024, time.January, 1),
		EndDate:        ContractEndDate(date(2024, time.January, 1), 12),
		DurationMonths: 12,
		Frequency:      model.FrequencyQuarterly,
		Rate:           decimal.NewFromInt(5), // commission %
		Status:         model.ContractStatusActive,
	}
	basis := &SupplyBasis{
		PeriodGross: decimal.NewFromInt(10000),
		Maintenance: decimal.NewFromInt(200),
		Other:       decimal.NewFromInt(100),
	}

	items, err := Build(BuildInput{Contract: c, Supply: basis})
	require.NoError(t, err)
	require.Len(t, items, 4)

	for _, item := range items {
		assert.Equal(t, model.PaymentKindSupply, item.Kind)
		// gross 10000, commission 5% = 500, net = 10000-500-200-100.
		assert.True(t, item.Gross.Equal(decimal.NewFromInt(10000)), "gross %s", item.Gross)
		assert.True(t, item.Commission.Equal(decimal.NewFromInt(500)), "commission %s", item.Commission)
		assert.True(t, item.Net.Equal(decimal.NewFromInt(9200)), "net %s", item.Net)
	}
}

func TestBuildSupplyRequiresBasis(t *testing.T) {
	propertyID := uuid.New()
	c := model.Contract{
		ID:             uuid.New(),
		Kind:           model.ContractKindOwnership,
		PropertyID:     &propertyID,
		StartDate:      date(2024, time.January, 1),
		DurationMonths: 12,
		Frequency:      model.FrequencyMonthly,
		Rate:           decimal.NewFromInt(5),
	}
	_, err := Build(BuildInput{Contract: c})
	assert.Error(t, err)
}

func TestCoveredThrough(t *testing.T) {
	c := tenancyContract(date(2024, time.January, 1), 12, model.FrequencyMonthly, 1000)
	items, err := Build(BuildInput{Contract: c})
	require.NoError(t, err)

	settledAt := date(2024, time.March, 5)
	for i := 0; i < 3; i++ {
		items[i].SettlementDate = &settledAt
	}

	assert.Equal(t, 3, CoveredThrough(c, items[:3]))
	assert.Equal(t, 0, CoveredThrough(c, nil))
}
