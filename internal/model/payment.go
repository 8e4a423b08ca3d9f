package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentKind string

const (
	// PaymentKindCollection is rent owed by a tenant under a tenancy contract.
	PaymentKindCollection PaymentKind = "COLLECTION"
	// PaymentKindSupply is a payout owed to a property owner, net of
	// commission and deductions.
	PaymentKindSupply PaymentKind = "SUPPLY"
)

type PaymentLineItem struct {
	ID             uuid.UUID
	ContractID     uuid.UUID
	Kind           PaymentKind
	DuePeriodStart time.Time
	DuePeriodEnd   time.Time

	// Collection amount for the period. Zero for supply items.
	Amount decimal.Decimal

	// Supply breakdown. All four components are stored so reporting never
	// re-derives commission from a rate that may have changed since.
	Gross                decimal.Decimal
	Commission           decimal.Decimal
	MaintenanceDeduction decimal.Decimal
	OtherDeduction       decimal.Decimal
	Net                  decimal.Decimal

	SettlementDate *time.Time
	SettledBy      *uuid.UUID
	DelayDuration  *int // days
	DelayReason    *string
	CreatedAt      time.Time
}

// Settled reports whether the installment has been collected or paid out.
func (p *PaymentLineItem) Settled() bool {
	return p.SettlementDate != nil
}
