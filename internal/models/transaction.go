package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeSavings    TransactionType = "savings"
	TransactionTypeInvestment TransactionType = "investment"
)

// Transaction is a money movement recorded by the budgeting side of FinBridge.
// The API only reads them.
type Transaction struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	TransactionDate time.Time       `gorm:"type:date;not null" json:"transaction_date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category        string          `json:"category"`
	TransactionType TransactionType `gorm:"not null" json:"transaction_type"`
}
