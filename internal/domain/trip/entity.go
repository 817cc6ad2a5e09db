package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Only completed and finalized (billed) trips feed payroll.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentInvoice PaymentMethod = "invoice"
)

// TripFinancial - Per-trip payroll input. TotalKm is authoritative odometer
// distance; WaitingHours is the only time metric feeding pay.
type TripFinancial struct {
	ID              string
	DriverID        string
	ServiceDate     time.Time
	TotalKm         decimal.Decimal
	WaitingHours    decimal.Decimal
	PaymentMethod   PaymentMethod
	AmountCollected *decimal.Decimal
	AmountExpected  *decimal.Decimal
	Status          Status
}

// CashAmount resolves the cash a driver physically collected on this trip:
// the collected amount when recorded, the expected amount otherwise, zero
// when neither is known. Meaningful only for cash trips.
func (t TripFinancial) CashAmount() decimal.Decimal {
	if t.AmountCollected != nil {
		return *t.AmountCollected
	}
	if t.AmountExpected != nil {
		return *t.AmountExpected
	}
	return decimal.Zero
}
