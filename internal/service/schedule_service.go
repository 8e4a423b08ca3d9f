package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aibek/estate-leases/internal/model"
	"github.com/aibek/estate-leases/internal/repository"
	"github.com/aibek/estate-leases/internal/schedule"
)

// ScheduleStore is the persistence surface the scheduling services run on.
// *repository.ScheduleRepository is the production implementation.
type ScheduleStore interface {
	GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	HasOverlapping(ctx context.Context, c *model.Contract) (bool, error)
	SumActiveUnitRates(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error)
	CountLineItems(ctx context.Context, contractID uuid.UUID) (int64, error)
	ListLineItems(ctx context.Context, contractID uuid.UUID) ([]model.PaymentLineItem, error)
	CreateSchedule(ctx context.Context, contractID uuid.UUID, items []model.PaymentLineItem) error
	ApplyReschedule(ctx context.Context, c *model.Contract, expectedVersion int, expectedUnsettled int64, items []model.PaymentLineItem) (int64, error)
	SettleLineItem(ctx context.Context, id uuid.UUID, settledAt time.Time, actor uuid.UUID) error
	PostponeLineItem(ctx context.Context, id uuid.UUID, delayDays int, reason string) error
}

type ScheduleService struct {
	repo ScheduleStore
	log  zerolog.Logger
	now  func() time.Time
}

func NewScheduleService(repo ScheduleStore, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// WithClock replaces the service clock. Tests pin it to cross day
// boundaries deterministically.
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	s.now = now
	return s
}

type GenerateResult struct {
	CreatedCount int
	Items        []model.PaymentLineItem
}

// CanGenerate reports whether the contract has no line items yet. The same
// check is re-run inside the generation transaction; this predicate exists
// for form-level feedback before the user commits.
func (s *ScheduleService) CanGenerate(ctx context.Context, contractID uuid.UUID) (bool, error) {
	if _, err := s.getContract(ctx, contractID); err != nil {
		return false, err
	}
	count, err := s.repo.CountLineItems(ctx, contractID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Generate produces and persists the full payment schedule for a contract.
// All periods are written in one transaction or none are.
func (s *ScheduleService) Generate(ctx context.Context, contractID uuid.UUID) (*GenerateResult, error) {
	c, err := s.getContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Status == model.ContractStatusDraft {
		return nil, fmt.Errorf("%w: draft contracts cannot have payments generated", ErrInvalidInput)
	}
	if c.Terminal() {
		return nil, fmt.Errorf("%w: contract is %s", ErrInvalidInput, c.Status)
	}

	overlapping, err := s.repo.HasOverlapping(ctx, c)
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, ErrOverlappingPeriod
	}

	count, err := s.repo.CountLineItems(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyGenerated
	}

	items, err := s.buildSchedule(ctx, *c, 0)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateSchedule(ctx, contractID, items); err != nil {
		if err == repository.ErrScheduleExists {
			return nil, ErrAlreadyGenerated
		}
		return nil, err
	}

	s.log.Info().
		Str("contract_id", contractID.String()).
		Int("periods", len(items)).
		Msg("schedule generated")

	return &GenerateResult{CreatedCount: len(items), Items: items}, nil
}

// ListPayments returns the contract's line items with their statuses
// resolved at asOf.
func (s *ScheduleService) ListPayments(ctx context.Context, contractID uuid.UUID, asOf time.Time) ([]model.PaymentLineItem, []schedule.Status, error) {
	if _, err := s.getContract(ctx, contractID); err != nil {
		return nil, nil, err
	}
	items, err := s.repo.ListLineItems(ctx, contractID)
	if err != nil {
		return nil, nil, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	statuses := make([]schedule.Status, len(items))
	for i, item := range items {
		statuses[i] = schedule.Resolve(item, asOf)
	}
	return items, statuses, nil
}

type ScheduleSummary struct {
	PaidPeriods      int
	UnsettledCount   int
	RemainingPeriods int
}

// Summary reports what a reschedule would preserve versus discard. Paid
// period count comes from settlement records only, never from date math.
func (s *ScheduleService) Summary(ctx context.Context, contractID uuid.UUID) (*ScheduleSummary, error) {
	if _, err := s.getContract(ctx, contractID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListLineItems(ctx, contractID)
	if err != nil {
		return nil, err
	}
	settled, unsettled := partition(items)
	return &ScheduleSummary{
		PaidPeriods:      len(settled),
		UnsettledCount:   len(unsettled),
		RemainingPeriods: len(unsettled),
	}, nil
}

// ConfirmSettlement records an installment as collected or paid out. The
// settlement workflow itself lives upstream; only the fields the engine
// reads are written here.
func (s *ScheduleService) ConfirmSettlement(ctx context.Context, itemID uuid.UUID, settledAt time.Time, actor uuid.UUID) error {
	if settledAt.IsZero() {
		settledAt = s.now()
	}
	err := s.repo.SettleLineItem(ctx, itemID, schedule.DateOnly(settledAt), actor)
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%w: line item missing or already settled", ErrNotFound)
	}
	return err
}

// Postpone records a delay on an unsettled collection payment. The due
// period itself does not move.
func (s *ScheduleService) Postpone(ctx context.Context, itemID uuid.UUID, delayDays int, reason string) error {
	if delayDays <= 0 {
		return fmt.Errorf("%w: delay must be positive", ErrInvalidInput)
	}
	err := s.repo.PostponeLineItem(ctx, itemID, delayDays, reason)
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%w: collection line item missing or already settled", ErrNotFound)
	}
	return err
}

func (s *ScheduleService) getContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	c, err := s.repo.GetContract(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ScheduleService) buildSchedule(ctx context.Context, c model.Contract, fromMonthOffset int) ([]model.PaymentLineItem, error) {
	in := schedule.BuildInput{Contract: c, FromMonthOffset: fromMonthOffset}
	if c.Kind == model.ContractKindOwnership {
		basis, err := s.supplyBasis(ctx, c)
		if err != nil {
			return nil, err
		}
		in.Supply = basis
	}
	return schedule.Build(in)
}

func (s *ScheduleService) supplyBasis(ctx context.Context, c model.Contract) (*schedule.SupplyBasis, error) {
	if c.PropertyID == nil {
		return nil, fmt.Errorf("%w: ownership contract has no property", ErrInvalidInput)
	}
	monthlyGross, err := s.repo.SumActiveUnitRates(ctx, *c.PropertyID)
	if err != nil {
		return nil, err
	}
	periodLen := schedule.PeriodLengthMonths(c.Frequency)
	return &schedule.SupplyBasis{
		// Flat proration: a quarterly gross is exactly three monthly
		// grosses, regardless of the days in the months spanned.
		PeriodGross: monthlyGross.Mul(decimal.NewFromInt(int64(periodLen))),
		Maintenance: c.MaintenanceDeduction,
		Other:       c.OtherDeduction,
	}, nil
}

func partition(items []model.PaymentLineItem) (settled, unsettled []model.PaymentLineItem) {
	for _, item := range items {
		if item.Settled() {
			settled = append(settled, item)
		} else {
			unsettled = append(unsettled, item)
		}
	}
	return settled, unsettled
}
