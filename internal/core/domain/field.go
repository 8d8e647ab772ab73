package domain

import "regexp"

// Canonical field names a CSV header can be mapped to.
const (
	FieldDate        = "date"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldDebit       = "debit"
	FieldCredit      = "credit"
	FieldBalance     = "balance"
	FieldReference   = "reference"
	FieldCategory    = "category"
	FieldAccount     = "account"
)

// FieldDefinition describes one canonical field: its synonyms and, optionally, the shape its
// values are expected to have. A MixedSign field only earns its pattern bonus when the sampled
// column holds both negative and positive values, so an unsigned debit or credit column never
// looks like a signed amount.
type FieldDefinition struct {
	Name      string
	Required  bool
	Synonyms  []string
	Pattern   *regexp.Regexp
	MixedSign bool
}

var (
	datePattern   = regexp.MustCompile(`^(\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}|\d{1,2}[ -][A-Za-z]{3,9}[ -]\d{2,4}|[A-Za-z]{3,9} \d{1,2},? \d{4}|\d{8})$`)
	moneyPattern  = regexp.MustCompile(`^[-+(]?\s*[$£€]?\s*-?(\d{1,3}(,\d{3})+|\d*)(\.\d+)?\)?$`)
	accountFormat = regexp.MustCompile(`^[\dXx*\- ]{4,}$`)
)

// FieldCatalog is the fixed, ordered list of canonical fields. The order is the priority in
// which MappingSuggester assigns headers and must not change.
var FieldCatalog = []FieldDefinition{
	{
		Name:     FieldDate,
		Required: true,
		Synonyms: []string{"date", "transaction date", "trans date", "trans. date", "txn date", "posting date", "posted date", "post date", "value date", "booking date"},
		Pattern:  datePattern,
	},
	{
		Name:     FieldDescription,
		Required: true,
		Synonyms: []string{"description", "merchant", "payee", "details", "narrative", "memo", "transaction description", "name", "particulars"},
	},
	{
		Name:      FieldAmount,
		Required:  true,
		Synonyms:  []string{"amount", "transaction amount", "amt", "value", "sum", "net amount"},
		Pattern:   moneyPattern,
		MixedSign: true,
	},
	{
		Name:     FieldDebit,
		Synonyms: []string{"debit", "debits", "withdrawal", "withdrawals", "money out", "paid out", "debit amount"},
		Pattern:  moneyPattern,
	},
	{
		Name:     FieldCredit,
		Synonyms: []string{"credit", "credits", "deposit", "deposits", "money in", "paid in", "credit amount"},
		Pattern:  moneyPattern,
	},
	{
		Name:     FieldBalance,
		Synonyms: []string{"balance", "running balance", "closing balance", "available balance", "ledger balance"},
		Pattern:  moneyPattern,
	},
	{
		Name:     FieldReference,
		Synonyms: []string{"reference", "ref", "reference number", "check number", "cheque number", "transaction id", "confirmation number"},
	},
	{
		Name:     FieldCategory,
		Synonyms: []string{"category", "type", "transaction type", "class"},
	},
	{
		Name:     FieldAccount,
		Synonyms: []string{"account", "account number", "account name", "card number", "card"},
		Pattern:  accountFormat,
	},
}

// FieldByName returns the catalog entry for name.
func FieldByName(name string) (FieldDefinition, bool) {
	for _, f := range FieldCatalog {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// RequiredFields lists the names of required catalog fields in catalog order.
func RequiredFields() []string {
	var names []string
	for _, f := range FieldCatalog {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
