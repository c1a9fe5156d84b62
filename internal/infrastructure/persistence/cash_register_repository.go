package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on open registers
const uniqueViolation = "23505"

// GormCashRegisterRepository implements cashier.RegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a register by its ID
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegister, error) {
	var register cashier.CashRegister
	if err := r.db.WithContext(ctx).First(&register, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindOpenByBranch finds the single ABIERTA register of a branch
func (r *GormCashRegisterRepository) FindOpenByBranch(ctx context.Context, branchID uuid.UUID) (*cashier.CashRegister, error) {
	var register cashier.CashRegister
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND status = ?", branchID, cashier.RegisterOpen).
		First(&register).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindHistory lists registers of a branch, newest first
func (r *GormCashRegisterRepository) FindHistory(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]cashier.CashRegister, error) {
	var registers []cashier.CashRegister
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&cashier.CashRegister{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&registers).Error; err != nil {
		return nil, err
	}
	return registers, nil
}

// Save creates or updates a register. The partial unique index on
// (branch_id) WHERE status = 'ABIERTA' turns a double open into
// REGISTER_ALREADY_OPEN even when two requests race.
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *cashier.CashRegister) error {
	if err := r.db.WithContext(ctx).Save(register).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shared.ErrRegisterAlreadyOpen
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCashRegisterRepository) SaveWithLock(ctx context.Context, register *cashier.CashRegister) error {
	currentVersion := register.Version
	register.Version++
	register.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&cashier.CashRegister{}).
		Where("id = ? AND version = ?", register.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":          register.Status,
			"closed_by":       register.ClosedBy,
			"closed_at":       register.ClosedAt,
			"closing_amount":  register.ClosingAmount,
			"closing_notes":   register.ClosingNotes,
			"expected_cash":   register.ExpectedCash,
			"expected_qr":     register.ExpectedQR,
			"expected_card":   register.ExpectedCard,
			"expected_total":  register.ExpectedTotal,
			"cash_difference": register.CashDifference,
			"version":         register.Version,
			"updated_at":      register.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENT_MODIFICATION", "The register has been modified by another user")
	}
	return nil
}

// Count counts registers of a branch matching the filter
func (r *GormCashRegisterRepository) Count(ctx context.Context, branchID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&cashier.CashRegister{}).
			Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCashRegisterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CashRegisterSortFields, "opened_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormCashRegisterRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "from":
			query = query.Where("opened_at >= ?", value)
		case "to":
			query = query.Where("opened_at < ?", value)
		}
	}
	return query
}

// Ensure GormCashRegisterRepository implements RegisterRepository
var _ cashier.RegisterRepository = (*GormCashRegisterRepository)(nil)
