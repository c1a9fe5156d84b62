package sales

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/domain/cashier"
	"github.com/outsiders/backend/internal/domain/shared"
	"github.com/outsiders/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentType is how a POS sale was paid
type PaymentType string

const (
	PaymentCash  PaymentType = "EFECTIVO"
	PaymentQR    PaymentType = "QR"
	PaymentCard  PaymentType = "TARJETA"
	PaymentMixed PaymentType = "MIXTO"
)

// paymentTolerance is the largest accepted gap between the MIXTO sub-amounts
// and the sale total (rounding noise from client-side arithmetic)
var paymentTolerance = decimal.NewFromFloat(0.01)

// PaymentDetails carries the per-method split of a MIXTO sale.
// Stored as a JSONB column.
type PaymentDetails struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	QR       decimal.Decimal `json:"qr"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
}

// Sum returns the total of the three sub-amounts
func (p PaymentDetails) Sum() decimal.Decimal {
	return p.Efectivo.Add(p.QR).Add(p.Tarjeta)
}

// Value implements driver.Valuer for JSONB storage
func (p PaymentDetails) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PaymentDetails) Scan(value any) error {
	if value == nil {
		*p = PaymentDetails{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentDetails", value)
	}
	return json.Unmarshal(data, p)
}

// Sale is a finalized POS transaction at a branch. It is immutable once
// created: stock decrements and the register movement happen in the same
// transaction that inserts it.
type Sale struct {
	shared.BranchAggregateRoot
	RegisterID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null"`
	Subtotal       valueobject.Money `gorm:"type:decimal(12,2);not null"`
	DiscountAmount valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	Total          valueobject.Money `gorm:"type:decimal(12,2);not null"`
	PaymentType    PaymentType       `gorm:"size:10;not null"`
	PaymentDetails *PaymentDetails   `gorm:"type:jsonb"`
	SaleDate       time.Time         `gorm:"not null;index"`
	Items          []SaleItem        `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one snapshotted line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductName string            `gorm:"size:200;not null"`
	Size        string            `gorm:"size:20"`
	Quantity    int               `gorm:"not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Subtotal    valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleLine is the input for one sale item
type SaleLine struct {
	VariantID   uuid.UUID
	ProductName string
	Size        string
	Quantity    int
	UnitPrice   valueobject.Money
}

// NewSale validates and builds a sale. MIXTO sales must provide details whose
// sub-amounts add up to the total within the payment tolerance.
func NewSale(branchID, registerID, userID uuid.UUID, lines []SaleLine, discount valueobject.Money, paymentType PaymentType, details *PaymentDetails) (*Sale, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale requires at least one item")
	}
	if discount.IsNegative() {
		return nil, shared.ErrInvalidDiscount
	}
	switch paymentType {
	case PaymentCash, PaymentQR, PaymentCard, PaymentMixed:
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown payment type")
	}

	sale := &Sale{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		RegisterID:          registerID,
		UserID:              userID,
		DiscountAmount:      discount,
		PaymentType:         paymentType,
		SaleDate:            time.Now(),
	}

	subtotal := valueobject.ZeroBOB()
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Sale line quantity must be positive")
		}
		if !line.UnitPrice.IsPositive() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Sale line price must be greater than zero")
		}
		lineSubtotal := line.UnitPrice.MultiplyByInt(int64(line.Quantity))
		sale.Items = append(sale.Items, SaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			SaleID:      sale.ID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    lineSubtotal,
		})
		subtotal = subtotal.MustAdd(lineSubtotal)
	}
	sale.Subtotal = subtotal

	if exceeds, _ := discount.GreaterThan(subtotal); exceeds {
		return nil, shared.ErrInvalidDiscount
	}
	sale.Total = subtotal.MustSubtract(discount)

	if paymentType == PaymentMixed {
		if details == nil {
			return nil, shared.ErrPaymentMismatch
		}
		if details.Efectivo.IsNegative() || details.QR.IsNegative() || details.Tarjeta.IsNegative() {
			return nil, shared.ErrPaymentMismatch
		}
		gap := details.Sum().Sub(sale.Total.Amount()).Abs()
		if gap.GreaterThan(paymentTolerance) {
			return nil, shared.ErrPaymentMismatch
		}
		sale.PaymentDetails = details
	}

	return sale, nil
}

// RegisterMovements builds the INGRESO ledger rows this sale contributes to
// its register. A single-method sale posts one movement for the full total;
// a MIXTO sale posts one movement per non-zero sub-amount.
func (s *Sale) RegisterMovements(register *cashier.CashRegister) ([]*cashier.CashMovement, error) {
	concept := "Venta"

	type split struct {
		method cashier.PaymentMethod
		amount decimal.Decimal
	}

	var splits []split
	switch s.PaymentType {
	case PaymentCash:
		splits = []split{{cashier.PaymentCash, s.Total.Amount()}}
	case PaymentQR:
		splits = []split{{cashier.PaymentQR, s.Total.Amount()}}
	case PaymentCard:
		splits = []split{{cashier.PaymentCard, s.Total.Amount()}}
	case PaymentMixed:
		splits = []split{
			{cashier.PaymentCash, s.PaymentDetails.Efectivo},
			{cashier.PaymentQR, s.PaymentDetails.QR},
			{cashier.PaymentCard, s.PaymentDetails.Tarjeta},
		}
	}

	movements := make([]*cashier.CashMovement, 0, len(splits))
	for _, part := range splits {
		if !part.amount.IsPositive() {
			continue
		}
		m, err := cashier.NewCashMovement(register, cashier.MovementIncome, part.method, valueobject.NewMoneyBOB(part.amount), concept)
		if err != nil {
			return nil, err
		}
		m.WithSaleReference(s.ID).WithActor(s.UserID)
		movements = append(movements, m)
	}
	return movements, nil
}
