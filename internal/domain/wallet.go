package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletType string

const (
	WalletTypeCash         WalletType = "cash"
	WalletTypeBankAccount  WalletType = "bank_account"
	WalletTypeCard         WalletType = "card"
	WalletTypePersonalCard WalletType = "personal_card"
	WalletTypeOnline       WalletType = "online"
	WalletTypeOther        WalletType = "other"
)

func (t WalletType) IsValid() bool {
	switch t {
	case WalletTypeCash, WalletTypeBankAccount, WalletTypeCard,
		WalletTypePersonalCard, WalletTypeOnline, WalletTypeOther:
		return true
	}
	return false
}

// CashBearing reports whether the wallet type participates in cash-shift
// accounting (the kinds an operator physically counts at close).
func (t WalletType) CashBearing() bool {
	return t == WalletTypeCash || t == WalletTypeCard
}

type Wallet struct {
	ID            uuid.UUID
	Name          string
	WalletType    WalletType
	Balance       decimal.Decimal
	AllowNegative bool
	OwnerID       *uuid.UUID
	IsActive      bool
	Notes         string
	Version       int64
	CreatedAt     time.Time
}
