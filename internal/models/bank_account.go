package models

// BankAccount is a row of the bank_accounts table.
type BankAccount struct {
	AccountID     string `db:"account_id"`
	AccountNumber string `db:"account_number"`
	Name          string `db:"name"`
	BankName      string `db:"bank_name"`
	CurrencyCode  string `db:"currency_code"`
	IsActive      bool   `db:"is_active"`
	AuditFields
}
