package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractKind string

const (
	// ContractKindTenancy rents a unit to a tenant; rate is the monthly rent.
	ContractKindTenancy ContractKind = "TENANCY"
	// ContractKindOwnership manages a property on behalf of its owner;
	// rate is the commission percentage withheld from collected rent.
	ContractKindOwnership ContractKind = "OWNERSHIP"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusSuspended ContractStatus = "SUSPENDED"
	ContractStatusExpired   ContractStatus = "EXPIRED"
	ContractStatusCompleted ContractStatus = "COMPLETED"
)

type PaymentFrequency string

const (
	FrequencyMonthly      PaymentFrequency = "MONTHLY"
	FrequencyQuarterly    PaymentFrequency = "QUARTERLY"
	FrequencySemiAnnually PaymentFrequency = "SEMI_ANNUALLY"
	FrequencyAnnually     PaymentFrequency = "ANNUALLY"
)

type Contract struct {
	ID             uuid.UUID
	Kind           ContractKind
	UnitID         *uuid.UUID // tenancy only
	PropertyID     *uuid.UUID // property housing the unit, or the managed property
	OwnerID        *uuid.UUID // ownership only
	StartDate      time.Time
	EndDate        time.Time
	DurationMonths int
	Frequency      PaymentFrequency
	Rate           decimal.Decimal
	// Per-period payout deduction defaults, applied when the supply
	// schedule is generated. Zero for tenancy contracts.
	MaintenanceDeduction decimal.Decimal
	OtherDeduction       decimal.Decimal
	Status               ContractStatus
	// Version is the optimistic concurrency token; every term mutation
	// bumps it, and a stale version aborts the mutation.
	Version   int
	CreatedAt time.Time
}

// Terminal reports whether the contract can no longer accrue obligations.
func (c *Contract) Terminal() bool {
	return c.Status == ContractStatusExpired || c.Status == ContractStatusCompleted
}
