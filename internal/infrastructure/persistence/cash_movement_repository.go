package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashMovementRepository implements cashier.MovementRepository using GORM
type GormCashMovementRepository struct {
	db *gorm.DB
}

// NewGormCashMovementRepository creates a new GormCashMovementRepository
func NewGormCashMovementRepository(db *gorm.DB) *GormCashMovementRepository {
	return &GormCashMovementRepository{db: db}
}

// Append writes a ledger row. Movements are never updated or deleted.
func (r *GormCashMovementRepository) Append(ctx context.Context, movement *cashier.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByRegister lists the movements of a session in posting order
func (r *GormCashMovementRepository) FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]cashier.CashMovement, error) {
	var movements []cashier.CashMovement
	query := r.db.WithContext(ctx).Model(&cashier.CashMovement{}).
		Where("register_id = ?", registerID)

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}

	if filter.HasPagination() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Order("created_at ASC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumIncomeByMethod sums the INGRESO amounts of a session grouped by payment
// method. Methods without movements are absent from the result.
func (r *GormCashMovementRepository) SumIncomeByMethod(ctx context.Context, registerID uuid.UUID) (map[cashier.PaymentMethod]valueobject.Money, error) {
	var rows []struct {
		PaymentMethod string
		Total         decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&cashier.CashMovement{}).
		Select("payment_method, COALESCE(SUM(amount), 0) as total").
		Where("register_id = ? AND type = ?", registerID, cashier.MovementIncome).
		Group("payment_method").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[cashier.PaymentMethod]valueobject.Money, len(rows))
	for _, row := range rows {
		sums[cashier.PaymentMethod(row.PaymentMethod)] = valueobject.NewMoneyBOB(row.Total)
	}
	return sums, nil
}

// CountSales counts the movements referencing a sale in a session
func (r *GormCashMovementRepository) CountSales(ctx context.Context, registerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&cashier.CashMovement{}).
		Select("COUNT(DISTINCT reference_id)").
		Where("register_id = ? AND reference_type = ?", registerID, cashier.ReferenceSale).
		Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCashMovementRepository implements MovementRepository
var _ cashier.MovementRepository = (*GormCashMovementRepository)(nil)
