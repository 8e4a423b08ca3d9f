package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aibek/estate-leases/internal/model"
	"github.com/aibek/estate-leases/internal/repository"
	"github.com/aibek/estate-leases/internal/schedule"
)

type RescheduleInput struct {
	NewRate                decimal.Decimal
	AdditionalPeriodMonths int
	NewFrequency           model.PaymentFrequency
}

type RescheduleResult struct {
	DeletedCount int64
	NewItems     []model.PaymentLineItem
}

// CanReschedule reports whether the contract is eligible: not terminal and
// owning at least one line item. A contract with zero payments has nothing
// to reschedule; Generate is the operation for that state.
func (s *ScheduleService) CanReschedule(ctx context.Context, contractID uuid.UUID) (bool, error) {
	c, err := s.getContract(ctx, contractID)
	if err != nil {
		return false, err
	}
	if c.Terminal() {
		return false, nil
	}
	count, err := s.repo.CountLineItems(ctx, contractID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reschedule replaces the contract's unsettled obligations with a new tail
// under revised terms, preserving settled history untouched. Renewal is the
// same operation with the additional months extending past the old end
// date. The renewed term must not overlap another active contract on the
// same unit or owner/property pair.
//
// Deletion of unsettled items, the contract term update, and insertion of
// the new tail commit as one atomic unit; validation failures abort before
// anything is written.
func (s *ScheduleService) Reschedule(ctx context.Context, contractID uuid.UUID, input RescheduleInput) (*RescheduleResult, error) {
	c, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", ErrCannotReschedule, c.Status)
	}

	if !schedule.ValidFrequency(input.NewFrequency) {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, input.NewFrequency)
	}
	if input.NewRate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", ErrInvalidInput)
	}
	if _, err := schedule.PeriodCount(input.AdditionalPeriodMonths, input.NewFrequency); err != nil {
		return nil, err
	}

	items, err := s.repo.ListLineItems(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: contract has no payments", ErrCannotReschedule)
	}
	settled, unsettled := partition(items)

	// Settlement records, not date arithmetic, decide how much of the term
	// is already honored.
	coveredMonths := schedule.CoveredThrough(*c, settled)

	updated := *c
	updated.Rate = input.NewRate
	updated.Frequency = input.NewFrequency
	updated.DurationMonths = coveredMonths + input.AdditionalPeriodMonths
	updated.EndDate = schedule.ContractEndDate(updated.StartDate, updated.DurationMonths)

	newItems, err := s.buildSchedule(ctx, updated, coveredMonths)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.ApplyReschedule(ctx, &updated, c.Version, int64(len(unsettled)), newItems)
	if err != nil {
		if err == repository.ErrStaleContract {
			return nil, ErrConcurrentModification
		}
		if err == repository.ErrOverlappingTerm {
			return nil, ErrOverlappingPeriod
		}
		return nil, err
	}

	s.log.Info().
		Str("contract_id", contractID.String()).
		Int64("deleted", deleted).
		Int("created", len(newItems)).
		Int("paid_periods", len(settled)).
		Msg("contract rescheduled")

	return &RescheduleResult{DeletedCount: deleted, NewItems: newItems}, nil
}
