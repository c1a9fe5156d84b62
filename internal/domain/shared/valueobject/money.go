package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	BOB Currency = "BOB" // Bolivian Boliviano
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	BRL Currency = "BRL" // Brazilian Real
	ARS Currency = "ARS" // Argentine Peso
)

// DefaultCurrency is what amount columns and BOB constructors assume.
// The platform prices everything in bolivianos; the other codes exist for
// reporting conversions.
const DefaultCurrency = BOB

// Money is an immutable amount in a currency. Every operation returns a
// new value, so a sale total can never be mutated behind the ledger's back.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// with keeps the currency and swaps the amount.
func (m Money) with(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: m.currency}
}

// sameCurrency guards cross-currency arithmetic. Mixing currencies in a
// single register session is always a programming error upstream.
func (m Money) sameCurrency(other Money, op string) error {
	if m.currency != other.currency {
		return fmt.Errorf("cannot %s money with different currencies: %s and %s", op, m.currency, other.currency)
	}
	return nil
}

// NewMoney creates a Money, rejecting an empty currency.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromFloat creates Money from a float64 value.
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromInt creates Money from an int64 value.
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// NewMoneyFromString creates Money from a decimal string.
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyBOB creates Money in bolivianos.
func NewMoneyBOB(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BOB}
}

// NewMoneyBOBFromFloat creates Money in bolivianos from a float64.
func NewMoneyBOBFromFloat(amount float64) Money {
	return NewMoneyBOB(decimal.NewFromFloat(amount))
}

// NewMoneyBOBFromString creates Money in bolivianos from a decimal string.
func NewMoneyBOBFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoneyBOB(d), nil
}

// Zero returns zero in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroBOB returns zero bolivianos.
func ZeroBOB() Money {
	return Zero(BOB)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is positive.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is negative.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other, "add"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Add(other.amount)), nil
}

// MustAdd is Add for amounts known to share a currency; panics otherwise.
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns the difference of two amounts of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other, "subtract"); err != nil {
		return Money{}, err
	}
	return m.with(m.amount.Sub(other.amount)), nil
}

// MustSubtract is Subtract for amounts known to share a currency; panics
// otherwise.
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply scales the amount by factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return m.with(m.amount.Mul(factor))
}

// MultiplyByInt scales the amount by an integer, typically a line quantity.
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// MultiplyByFloat scales the amount by a float factor.
func (m Money) MultiplyByFloat(factor float64) Money {
	return m.Multiply(decimal.NewFromFloat(factor))
}

// Divide splits the amount by divisor, rejecting zero.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return m.with(m.amount.Div(divisor)), nil
}

// Negate flips the sign, used when reversing a cash movement.
func (m Money) Negate() Money {
	return m.with(m.amount.Neg())
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	return m.with(m.amount.Abs())
}

// Round rounds half away from zero to the given decimal places.
func (m Money) Round(places int32) Money {
	return m.with(m.amount.Round(places))
}

// RoundBank rounds half to even to the given decimal places.
func (m Money) RoundBank(places int32) Money {
	return m.with(m.amount.RoundBank(places))
}

// Truncate drops digits beyond the given decimal places without rounding.
func (m Money) Truncate(places int32) Money {
	return m.with(m.amount.Truncate(places))
}

// Equals reports whether both values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// compare is the shared core of the ordering predicates.
func (m Money) compare(other Money) (int, error) {
	if err := m.sameCurrency(other, "compare"); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan reports m < other for the same currency.
func (m Money) LessThan(other Money) (bool, error) {
	cmp, err := m.compare(other)
	return cmp < 0, err
}

// LessThanOrEqual reports m <= other for the same currency.
func (m Money) LessThanOrEqual(other Money) (bool, error) {
	cmp, err := m.compare(other)
	return err == nil && cmp <= 0, err
}

// GreaterThan reports m > other for the same currency.
func (m Money) GreaterThan(other Money) (bool, error) {
	cmp, err := m.compare(other)
	return cmp > 0, err
}

// GreaterThanOrEqual reports m >= other for the same currency.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	cmp, err := m.compare(other)
	return err == nil && cmp >= 0, err
}

// String renders the amount with two decimals followed by the currency,
// e.g. "150.00 BOB".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed renders the bare amount with fixed decimal places.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Float64 returns the amount as a float64. Only for display and metrics;
// arithmetic stays on the decimal.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// moneyJSON is the wire shape: the amount travels as a string so clients
// never receive a binary-float rendering of a price.
type moneyJSON struct {
	Amount   string   `json:"amount"`
	Currency Currency `json:"currency"`
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler. It assigns fields directly
// without validating the currency; use ParseMoneyFromJSON when the input
// is untrusted.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	return nil
}

// ParseMoneyFromJSON decodes a Money from JSON, rejecting an empty
// currency.
func ParseMoneyFromJSON(data []byte) (Money, error) {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return Money{}, fmt.Errorf("failed to parse money JSON: %w", err)
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount: %w", err)
	}
	return NewMoney(amount, v.Currency)
}

// Value implements driver.Valuer. Only the amount is stored; columns are
// implicitly in the system currency.
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner. The currency falls back to DefaultCurrency
// since amount columns do not carry one.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Allocate splits the amount into parts that sum exactly to the original,
// used when a MIXTO payment spreads a total across tenders. Each part is
// the truncated share; leftover cents go to the earliest parts one cent
// each.
func (m Money) Allocate(parts int) ([]Money, error) {
	if parts <= 0 {
		return nil, errors.New("parts must be positive")
	}
	if parts == 1 {
		return []Money{m}, nil
	}

	n := decimal.NewFromInt(int64(parts))
	base := m.amount.Div(n).Truncate(2)
	remainder := m.amount.Sub(base.Mul(n))
	remainderCents := remainder.Mul(decimal.NewFromInt(100)).IntPart()

	cent := decimal.NewFromFloat(0.01)
	result := make([]Money, parts)
	for i := range parts {
		share := base
		if int64(i) < remainderCents {
			share = share.Add(cent)
		}
		result[i] = m.with(share)
	}
	return result, nil
}

// CalculatePercentage returns percent% of the amount.
func (m Money) CalculatePercentage(percent decimal.Decimal) Money {
	return m.with(m.amount.Mul(percent).Div(decimal.NewFromInt(100)))
}

// ApplyDiscount subtracts a percentage discount, as drop pricing does.
func (m Money) ApplyDiscount(discountPercent decimal.Decimal) Money {
	return m.with(m.amount.Sub(m.CalculatePercentage(discountPercent).amount))
}
