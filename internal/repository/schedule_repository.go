package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aibek/estate-leases/internal/model"
)

var (
	// ErrScheduleExists is returned when a contract already owns line items.
	ErrScheduleExists = errors.New("schedule already exists for contract")
	// ErrStaleContract is returned when a guarded write finds the contract
	// or its line items changed underneath the caller.
	ErrStaleContract = errors.New("contract was modified concurrently")
	// ErrOverlappingTerm is returned when a guarded write would extend a
	// contract over another active contract on the same unit or
	// owner/property pair.
	ErrOverlappingTerm = errors.New("contract term overlaps an active contract")
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var c model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			unit_id,
			property_id,
			owner_id,
			start_date,
			end_date,
			duration_months,
			frequency,
			rate,
			maintenance_deduction,
			other_deduction,
			status,
			version,
			created_at
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *ScheduleRepository) CreateContract(ctx context.Context, c *model.Contract) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO contracts (
			id,
			kind,
			unit_id,
			property_id,
			owner_id,
			start_date,
			end_date,
			duration_months,
			frequency,
			rate,
			maintenance_deduction,
			other_deduction,
			status,
			version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Kind,
		c.UnitID,
		c.PropertyID,
		c.OwnerID,
		c.StartDate,
		c.EndDate,
		c.DurationMonths,
		c.Frequency,
		c.Rate,
		c.MaintenanceDeduction,
		c.OtherDeduction,
		c.Status,
		c.Version,
	).Error
}

// HasOverlapping reports whether another active contract on the same unit
// (tenancy) or owner/property pair (ownership) intersects c's term.
func (r *ScheduleRepository) HasOverlapping(ctx context.Context, c *model.Contract) (bool, error) {
	return hasOverlapping(r.db.WithContext(ctx), c)
}

func hasOverlapping(db *gorm.DB, c *model.Contract) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM contracts
		WHERE id <> ?
			AND status = ?
			AND kind = ?
			AND start_date <= ?
			AND end_date >= ?
	`
	args := []interface{}{c.ID, model.ContractStatusActive, c.Kind, c.EndDate, c.StartDate}
	switch c.Kind {
	case model.ContractKindTenancy:
		query += " AND unit_id = ?"
		args = append(args, c.UnitID)
	case model.ContractKindOwnership:
		query += " AND owner_id = ? AND property_id = ?"
		args = append(args, c.OwnerID, c.PropertyID)
	}

	var count int64
	if err := db.Raw(query, args...).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumActiveUnitRates totals the monthly rent of active tenancy contracts on
// the property. This is the gross basis for an owner payout schedule.
func (r *ScheduleRepository) SumActiveUnitRates(ctx context.Context, propertyID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(rate), 0)
		FROM contracts
		WHERE kind = ?
			AND status = ?
			AND property_id = ?
	`, model.ContractKindTenancy, model.ContractStatusActive, propertyID).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ScheduleRepository) CountLineItems(ctx context.Context, contractID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM payment_line_items WHERE contract_id = ?
	`, contractID).Scan(&count).Error
	return count, err
}

func (r *ScheduleRepository) ListLineItems(ctx context.Context, contractID uuid.UUID) ([]model.PaymentLineItem, error) {
	var items []model.PaymentLineItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			contract_id,
			kind,
			due_period_start,
			due_period_end,
			amount,
			gross,
			commission,
			maintenance_deduction,
			other_deduction,
			net,
			settlement_date,
			settled_by,
			delay_duration,
			delay_reason,
			created_at
		FROM payment_line_items
		WHERE contract_id = ?
		ORDER BY due_period_start ASC
	`, contractID).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ScheduleRepository) GetLineItem(ctx context.Context, id uuid.UUID) (*model.PaymentLineItem, error) {
	var item model.PaymentLineItem
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			contract_id,
			kind,
			due_period_start,
			due_period_end,
			amount,
			gross,
			commission,
			maintenance_deduction,
			other_deduction,
			net,
			settlement_date,
			settled_by,
			delay_duration,
			delay_reason,
			created_at
		FROM payment_line_items
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

// CreateSchedule inserts a freshly generated schedule. The zero-items guard
// is re-checked inside the transaction so two concurrent generation calls
// cannot both pass the caller-side predicate and double-write.
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, contractID uuid.UUID, items []model.PaymentLineItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Raw(`
			SELECT COUNT(*) FROM payment_line_items WHERE contract_id = ?
		`, contractID).Scan(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrScheduleExists
		}
		return insertLineItems(tx, items)
	})
}

// ApplyReschedule deletes unsettled items, updates the contract terms, and
// inserts the regenerated tail as one atomic unit.
//
// Three guards run inside the transaction: the updated term must not
// overlap another active contract, the delete must remove exactly the
// unsettled rows the caller partitioned (a row settled in the meantime
// fails the operation rather than being silently lost), and the contract
// update must match the version the caller read on a still non-terminal
// contract.
func (r *ScheduleRepository) ApplyReschedule(
	ctx context.Context,
	c *model.Contract,
	expectedVersion int,
	expectedUnsettled int64,
	items []model.PaymentLineItem,
) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapping, err := hasOverlapping(tx, c)
		if err != nil {
			return err
		}
		if overlapping {
			return ErrOverlappingTerm
		}

		res := tx.Exec(`
			DELETE FROM payment_line_items
			WHERE contract_id = ? AND settlement_date IS NULL
		`, c.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != expectedUnsettled {
			return ErrStaleContract
		}
		deleted = res.RowsAffected

		res = tx.Exec(`
			UPDATE contracts
			SET
				rate = ?,
				frequency = ?,
				duration_months = ?,
				end_date = ?,
				version = version + 1
			WHERE id = ? AND version = ? AND status NOT IN (?, ?)
		`, c.Rate, c.Frequency, c.DurationMonths, c.EndDate, c.ID, expectedVersion,
			model.ContractStatusExpired, model.ContractStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleContract
		}

		return insertLineItems(tx, items)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func (r *ScheduleRepository) SettleLineItem(ctx context.Context, id uuid.UUID, settledAt time.Time, actor uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE payment_line_items
		SET settlement_date = ?, settled_by = ?
		WHERE id = ? AND settlement_date IS NULL
	`, settledAt, actor, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PostponeLineItem records a delay on a collection payment. Supply payouts
// have no delay semantics and are rejected as not found.
func (r *ScheduleRepository) PostponeLineItem(ctx context.Context, id uuid.UUID, delayDays int, reason string) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE payment_line_items
		SET delay_duration = ?, delay_reason = ?
		WHERE id = ? AND settlement_date IS NULL AND kind = ?
	`, delayDays, reason, id, model.PaymentKindCollection)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertLineItems(tx *gorm.DB, items []model.PaymentLineItem) error {
	for _, item := range items {
		if err := tx.Exec(`
			INSERT INTO payment_line_items (
				id,
				contract_id,
				kind,
				due_period_start,
				due_period_end,
				amount,
				gross,
				commission,
				maintenance_deduction,
				other_deduction,
				net,
				settlement_date,
				settled_by,
				delay_duration,
				delay_reason
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			item.ID,
			item.ContractID,
			item.Kind,
			item.DuePeriodStart,
			item.DuePeriodEnd,
			item.Amount,
			item.Gross,
			item.Commission,
			item.MaintenanceDeduction,
			item.OtherDeduction,
			item.Net,
			item.SettlementDate,
			item.SettledBy,
			item.DelayDuration,
			item.DelayReason,
		).Error; err != nil {
			return err
		}
	}
	return nil
}
