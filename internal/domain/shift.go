package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "open"
	ShiftStatusClosed ShiftStatus = "closed"
)

// CashShift is one trading session on a wallet. A row is created at open and
// updated exactly once, at close; closed shifts are append-only history.
type CashShift struct {
	ID              uuid.UUID
	WalletID        uuid.UUID
	TradingPointID  uuid.UUID
	OpenedBy        uuid.UUID
	ClosedBy        *uuid.UUID
	Status          ShiftStatus
	OpenedAt        time.Time
	ClosedAt        *time.Time
	BalanceAtOpen   decimal.Decimal
	ExpectedAtClose *decimal.Decimal
	ActualAtClose   *decimal.Decimal
	Discrepancy     *decimal.Decimal
	Notes           string
}
