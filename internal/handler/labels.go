package handler

import "github.com/prostore/cashdesk/internal/domain"

// Display labels live at the boundary only; the core never formats them.

func walletTypeLabel(t domain.WalletType) string {
	switch t {
	case domain.WalletTypeCash:
		return "Cash register"
	case domain.WalletTypeBankAccount:
		return "Bank account"
	case domain.WalletTypeCard:
		return "Corporate card"
	case domain.WalletTypePersonalCard:
		return "Personal card"
	case domain.WalletTypeOnline:
		return "Online payments"
	default:
		return "Other"
	}
}

func transactionTypeLabel(t domain.TransactionType) string {
	switch t {
	case domain.TransactionTypeIncome:
		return "Income"
	case domain.TransactionTypeExpense:
		return "Expense"
	case domain.TransactionTypeTransfer:
		return "Transfer between wallets"
	case domain.TransactionTypeSupplierPayment:
		return "Supplier payment"
	case domain.TransactionTypeSalary:
		return "Salary"
	case domain.TransactionTypePersonalExpense:
		return "Personal expense"
	default:
		return string(t)
	}
}

func shiftStatusLabel(s domain.ShiftStatus) string {
	if s == domain.ShiftStatusOpen {
		return "Open"
	}
	return "Closed"
}
