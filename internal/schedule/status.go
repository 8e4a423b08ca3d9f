package schedule

import (
	"time"

	"github.com/aibek/estate-leases/internal/model"
)

// State is the derived lifecycle state of a payment line item. It is never
// stored: settlement fields and dates fully determine it, so storing it
// would only let it drift.
type State string

const (
	StateCollected       State = "COLLECTED"
	StatePostponed       State = "POSTPONED"
	StateOverdue         State = "OVERDUE"
	StateDue             State = "DUE"
	StateUpcoming        State = "UPCOMING"
	StatePending         State = "PENDING"
	StateWorthCollecting State = "WORTH_COLLECTING"
)

// Status pairs a state with the label/color contract consumed by external
// dashboards. The pairing is fixed; renderers depend on it.
type Status struct {
	State State  `json:"state"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusTable = map[State]Status{
	StateCollected:       {StateCollected, "collected", "success"},
	StateOverdue:         {StateOverdue, "overdue", "danger"},
	StateDue:             {StateDue, "due", "warning"},
	StatePostponed:       {StatePostponed, "postponed", "info"},
	StateUpcoming:        {StateUpcoming, "upcoming", "gray"},
	StatePending:         {StatePending, "pending", "warning"},
	StateWorthCollecting: {StateWorthCollecting, "worth collecting", "info"},
}

// Resolve computes the current status of a line item at the given instant.
// The clock is injected so callers and tests control day boundaries.
//
// First match wins, in priority order: settlement always dominates, then a
// recorded delay, then the relation of now to the due period.
func Resolve(item model.PaymentLineItem, now time.Time) Status {
	if item.Kind == model.PaymentKindSupply {
		return resolveSupply(item, now)
	}
	return resolveCollection(item, now)
}

func resolveCollection(item model.PaymentLineItem, now time.Time) Status {
	today := DateOnly(now)
	switch {
	case item.SettlementDate != nil:
		return statusTable[StateCollected]
	case item.DelayDuration != nil:
		return statusTable[StatePostponed]
	case item.DuePeriodEnd.Before(today):
		return statusTable[StateOverdue]
	case !item.DuePeriodStart.After(today):
		return statusTable[StateDue]
	default:
		return statusTable[StateUpcoming]
	}
}

// Supply payouts fall due at the end of the period they cover.
func resolveSupply(item model.PaymentLineItem, now time.Time) Status {
	today := DateOnly(now)
	switch {
	case item.SettlementDate != nil:
		return statusTable[StateCollected]
	case !item.DuePeriodEnd.After(today):
		return statusTable[StateWorthCollecting]
	default:
		return statusTable[StatePending]
	}
}
