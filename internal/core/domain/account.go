package domain

// BankAccount is a bank account already known to the host application. The importer only
// reads it, to prefer the canonical display name over the one derived from a file.
type BankAccount struct {
	AccountID     string `json:"accountID"`
	AccountNumber string `json:"accountNumber"` // as printed by the bank
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	CurrencyCode  string `json:"currencyCode"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// DisplayName falls back to the account number when the host has no name on file.
func (a BankAccount) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.AccountNumber
}
