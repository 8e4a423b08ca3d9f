package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aibek/estate-leases/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// SupplyBasis carries the monetary inputs for an ownership payout schedule.
// PeriodGross is the rent attributable to the owner over one billing
// period; the deductions are per-period defaults copied onto every
// generated item.
type SupplyBasis struct {
	PeriodGross decimal.Decimal
	Maintenance decimal.Decimal
	Other       decimal.Decimal
}

// BuildInput describes one schedule generation run.
//
// FromMonthOffset shifts the first period forward from the contract start;
// a reschedule passes the months already honored by settled installments so
// the new tail begins where paid history ends.
type BuildInput struct {
	Contract        model.Contract
	FromMonthOffset int
	Supply          *SupplyBasis // required for ownership contracts
}

// Build constructs the ordered line items for the remaining term of the
// contract. It is pure: nothing is persisted and no clock is read.
//
// The periods tile [start+offset, end] exactly: period i starts at
// AddMonths(start, offset+i*len) and ends the day before period i+1 starts.
func Build(in BuildInput) ([]model.PaymentLineItem, error) {
	c := in.Contract
	remaining := c.DurationMonths - in.FromMonthOffset
	count, err := PeriodCount(remaining, c.Frequency)
	if err != nil {
		return nil, err
	}
	if c.Kind == model.ContractKindOwnership && in.Supply == nil {
		return nil, fmt.Errorf("supply basis is required for ownership contracts")
	}

	periodLen := PeriodLengthMonths(c.Frequency)
	anchor := DateOnly(c.StartDate)
	items := make([]model.PaymentLineItem, 0, count)
	for i := 0; i < count; i++ {
		startMonths := in.FromMonthOffset + i*periodLen
		item := model.PaymentLineItem{
			ID:             uuid.New(),
			ContractID:     c.ID,
			DuePeriodStart: AddMonths(anchor, startMonths),
			DuePeriodEnd:   AddMonths(anchor, startMonths+periodLen).AddDate(0, 0, -1),
		}
		switch c.Kind {
		case model.ContractKindOwnership:
			item.Kind = model.PaymentKindSupply
			fillSupplyAmounts(&item, c.Rate, *in.Supply)
		default:
			item.Kind = model.PaymentKindCollection
			item.Amount = c.Rate.Mul(decimal.NewFromInt(int64(periodLen)))
		}
		items = append(items, item)
	}
	return items, nil
}

// fillSupplyAmounts stores the full gross/commission/deduction/net
// breakdown so reporting never re-derives commission from a rate that may
// change later.
func fillSupplyAmounts(item *model.PaymentLineItem, commissionRate decimal.Decimal, basis SupplyBasis) {
	gross := basis.PeriodGross
	commission := gross.Mul(commissionRate).Div(oneHundred)
	item.Gross = gross
	item.Commission = commission
	item.MaintenanceDeduction = basis.Maintenance
	item.OtherDeduction = basis.Other
	item.Net = gross.Sub(commission).Sub(basis.Maintenance).Sub(basis.Other)
}

// CoveredThrough returns the exclusive end of the months covered by the
// given settled items, in whole months from the contract start.
func CoveredThrough(c model.Contract, settled []model.PaymentLineItem) int {
	var last time.Time
	for _, item := range settled {
		if item.DuePeriodEnd.After(last) {
			last = item.DuePeriodEnd
		}
	}
	if last.IsZero() {
		return 0
	}
	return MonthsCovered(c.StartDate, last)
}
