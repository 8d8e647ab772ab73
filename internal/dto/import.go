package dto

import (
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CSVImportRequest is the JSON form of a CSV upload. Raw text bodies use the bank query
// parameter instead.
type CSVImportRequest struct {
	Content  string            `json:"content" binding:"required"`
	BankName string            `json:"bankName"`
	Mapping  map[string]string `json:"mapping"`
}

// OFXImportRequest is the JSON form of an OFX/QFX upload.
type OFXImportRequest struct {
	Content     string `json:"content" binding:"required"`
	AccountName string `json:"accountName"`
	AccountCode string `json:"accountCode"`
}

// TransactionResponse is one normalized transaction.
type TransactionResponse struct {
	ValueTimestamp  string          `json:"valueTimestamp"`
	DatePosted      string          `json:"datePosted"`
	Amount          decimal.Decimal `json:"amount"`
	SignedAmount    decimal.Decimal `json:"signedAmount"`
	Memo            string          `json:"memo"`
	Name            string          `json:"name"`
	CheckNumber     *string         `json:"checkNumber,omitempty"`
	TransactionType *string         `json:"transactionType,omitempty"`
	TransactionDC   string          `json:"transactionDC"`
	Category        string          `json:"category,omitempty"`
	FITID           string          `json:"fitid,omitempty"`
	Counterparty    string          `json:"counterparty,omitempty"`
}

// StatementResponse is one statement with its transactions.
type StatementResponse struct {
	StatementID   string                `json:"statementID"`
	Bank          string                `json:"bank"`
	BankID        string                `json:"bankID,omitempty"`
	BankSource    string                `json:"bankSource,omitempty"`
	Account       string                `json:"account"`
	AccountNumber string                `json:"accountNumber,omitempty"`
	Currency      string                `json:"currency"`
	Timestamp     string                `json:"timestamp"`
	StartBalance  decimal.Decimal       `json:"startBalance"`
	EndBalance    decimal.Decimal       `json:"endBalance"`
	Number        int                   `json:"number"`
	Sequence      int                   `json:"sequence"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// ImportResponse is returned when a file was parsed into statements.
type ImportResponse struct {
	ImportID         string              `json:"importID,omitempty"`
	Format           string              `json:"format"`
	MappingSource    string              `json:"mappingSource,omitempty"`
	TemplateSaved    bool                `json:"templateSaved"`
	Statements       []StatementResponse `json:"statements"`
	TransactionCount int                 `json:"transactionCount"`
	RowsRead         int                 `json:"rowsRead,omitempty"`
	RowsSkipped      int                 `json:"rowsSkipped,omitempty"`
	Warnings         []string            `json:"warnings,omitempty"`
}

// MappingReviewResponse is returned with 202 when a CSV file's headers could not be mapped
// with enough confidence. Resubmit with a reviewed mapping.
type MappingReviewResponse struct {
	ImportID         string             `json:"importID"`
	Status           string             `json:"status"`
	Headers          []string           `json:"headers"`
	SuggestedMapping map[string]string  `json:"suggestedMapping"`
	Evaluation       EvaluationResponse `json:"evaluation"`
}

// ToTransactionResponse converts a domain.Transaction.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ValueTimestamp:  tx.ValueTimestamp,
		DatePosted:      tx.DatePosted,
		Amount:          tx.Amount,
		SignedAmount:    tx.SignedAmount(),
		Memo:            tx.Memo,
		Name:            tx.Name,
		CheckNumber:     tx.CheckNumber,
		TransactionType: tx.TransactionType,
		TransactionDC:   string(tx.TransactionDC),
		Category:        tx.Category,
		FITID:           tx.FITID,
		Counterparty:    string(tx.Counterparty),
	}
}

// ToStatementResponse converts a domain.Statement and its transactions.
func ToStatementResponse(s *domain.Statement) StatementResponse {
	txs := make([]TransactionResponse, len(s.Transactions))
	for i, tx := range s.Transactions {
		txs[i] = ToTransactionResponse(tx)
	}
	return StatementResponse{
		StatementID:   s.StatementID,
		Bank:          s.Bank,
		BankID:        s.BankID,
		BankSource:    string(s.BankSource),
		Account:       s.Account,
		AccountNumber: s.AccountNumber,
		Currency:      s.Currency,
		Timestamp:     s.Timestamp,
		StartBalance:  s.StartBalance,
		EndBalance:    s.EndBalance,
		Number:        s.Number,
		Sequence:      s.Sequence,
		Transactions:  txs,
	}
}

// ToListStatementResponse converts statements, keeping their order.
func ToListStatementResponse(statements []*domain.Statement) []StatementResponse {
	res := make([]StatementResponse, len(statements))
	for i, s := range statements {
		res[i] = ToStatementResponse(s)
	}
	return res
}

// ToOFXImportResponse builds the response for an OFX import.
func ToOFXImportResponse(statements []*domain.Statement) ImportResponse {
	count := 0
	for _, s := range statements {
		count += len(s.Transactions)
	}
	return ImportResponse{
		Format:           "ofx",
		Statements:       ToListStatementResponse(statements),
		TransactionCount: count,
	}
}

// ToCSVImportResponse builds the response for a resolved CSV import.
func ToCSVImportResponse(r *domain.ImportResult) ImportResponse {
	return ImportResponse{
		ImportID:         r.ImportID,
		Format:           "csv",
		MappingSource:    string(r.Resolution.Source),
		TemplateSaved:    r.TemplateSaved,
		Statements:       ToListStatementResponse(r.OrderedStatements()),
		TransactionCount: r.TransactionCount(),
		RowsRead:         r.RowsRead,
		RowsSkipped:      r.RowsSkipped,
		Warnings:         r.Warnings,
	}
}

// ToMappingReviewResponse builds the 202 payload for a CSV import that needs review.
func ToMappingReviewResponse(r *domain.ImportResult) MappingReviewResponse {
	return MappingReviewResponse{
		ImportID:         r.ImportID,
		Status:           string(r.Resolution.Status),
		Headers:          r.Headers,
		SuggestedMapping: r.Resolution.Mapping,
		Evaluation:       ToEvaluationResponse(r.Resolution.Evaluation),
	}
}
