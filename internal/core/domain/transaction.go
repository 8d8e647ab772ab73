package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionDC indicates the direction of a normalized transaction.
type TransactionDC string

const (
	Credit       TransactionDC = "CREDIT"
	Debit        TransactionDC = "DEBIT"
	BankTransfer TransactionDC = "BANK_TRANSFER"
)

// Counterparty records who is on the other side of a transaction when the source says so.
type Counterparty string

const (
	CounterpartyUnknown Counterparty = ""
	CounterpartyBank    Counterparty = "BANK" // e.g. a card payment received from another bank
)

// TransactionTypeTransfer is the type code every OFX transaction is normalized to.
const TransactionTypeTransfer = "TRF"

// Transaction is a single normalized bank line, created once per source row or STMTTRN record.
type Transaction struct {
	ValueTimestamp  string          `json:"valueTimestamp" validate:"required"` // normalized date (2006-01-02) or the raw source value
	DatePosted      string          `json:"datePosted" validate:"required"`
	Amount          decimal.Decimal `json:"amount"` // OFX: absolute value, sign carried by TransactionDC. CSV: signed.
	Memo            string          `json:"memo"`
	Name            string          `json:"name"` // payee
	CheckNumber     *string         `json:"checkNumber,omitempty"`
	TransactionType *string         `json:"transactionType,omitempty"`
	TransactionDC   TransactionDC   `json:"transactionDC" validate:"required,oneof=CREDIT DEBIT BANK_TRANSFER"`
	Category        string          `json:"category,omitempty"`
	FITID           string          `json:"fitid,omitempty"`
	Counterparty    Counterparty    `json:"counterparty,omitempty"`
}

// SignedAmount returns the amount with the sign implied by TransactionDC.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionDC == Debit {
		return t.Amount.Abs().Neg()
	}
	if t.TransactionDC == Credit {
		return t.Amount.Abs()
	}
	return t.Amount
}

// Validate checks the required fields of the transaction.
func (t Transaction) Validate() error {
	return validateStruct(fmt.Sprintf("transaction %q", t.Name), t)
}
