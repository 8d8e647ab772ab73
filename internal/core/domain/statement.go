package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BankSource records where a statement's bank name and id came from.
type BankSource string

const (
	BankSourceDocument BankSource = "document" // SIGNON institution block
	BankSourceStatic   BankSource = "static"   // configured defaults
	BankSourceDefault  BankSource = "default"  // literal fallbacks
)

// Statement groups the transactions that share one derived statement key within a parse run.
type Statement struct {
	Bank          string          `json:"bank" validate:"required"`
	BankID        string          `json:"bankID"`
	BankSource    BankSource      `json:"bankSource,omitempty"`
	Account       string          `json:"account"`       // display name, canonical when the host knows the account
	AccountNumber string          `json:"accountNumber"` // as it appeared in the file
	Currency      string          `json:"currency" validate:"required"`
	Timestamp     string          `json:"timestamp" validate:"required"`
	StartBalance  decimal.Decimal `json:"startBalance"`
	EndBalance    decimal.Decimal `json:"endBalance"`
	Number        int             `json:"number"`
	Sequence      int             `json:"sequence" validate:"gte=1"`
	StatementID   string          `json:"statementID" validate:"required"`
	Transactions  []*Transaction  `json:"transactions" validate:"-"`
}

// NewStatement creates a statement and derives its StatementID.
func NewStatement(bank, currency, timestamp string, number, sequence int) *Statement {
	s := &Statement{
		Bank:      bank,
		Currency:  currency,
		Timestamp: timestamp,
		Number:    number,
		Sequence:  sequence,
	}
	s.StatementID = StatementID(timestamp, number, sequence)
	return s
}

// StatementID derives "{timestamp}-{number}-{sequence}". Dashes inside a normalized date are
// dropped so the id stays unambiguous.
func StatementID(timestamp string, number, sequence int) string {
	return fmt.Sprintf("%s-%d-%d", strings.ReplaceAll(timestamp, "-", ""), number, sequence)
}

// AddTransaction appends tx; statements are only ever mutated this way.
func (s *Statement) AddTransaction(tx *Transaction) {
	s.Transactions = append(s.Transactions, tx)
}

// NetAmount sums the signed amounts of all transactions.
func (s *Statement) NetAmount() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range s.Transactions {
		total = total.Add(tx.SignedAmount())
	}
	return total
}

// Validate checks the statement and every transaction it holds.
func (s *Statement) Validate() error {
	if err := validateStruct(fmt.Sprintf("statement %s", s.StatementID), s); err != nil {
		return err
	}
	for _, tx := range s.Transactions {
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	return nil
}
