package ofx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/core/ports/services"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const (
	fallbackBankName = "Savings"
	fallbackBankID   = "1060"
	fallbackCurrency = "USD"
)

// StaticDefaults are the configured bank name and id used when the document has no
// institution block.
type StaticDefaults struct {
	AccountName string
	AccountCode string
}

// accountSection describes where one kind of statement lives in the tree.
type accountSection struct {
	msgSet   string // message set aggregate under <OFX>
	trnRs    string // transaction wrapper
	stmtRs   string // statement response
	acctFrom string // account aggregate inside the statement response
}

var accountSections = []accountSection{
	{msgSet: "BANKMSGSRSV1", trnRs: "STMTTRNRS", stmtRs: "STMTRS", acctFrom: "BANKACCTFROM"},
	{msgSet: "CREDITCARDMSGSRSV1", trnRs: "CCSTMTTRNRS", stmtRs: "CCSTMTRS", acctFrom: "CCACCTFROM"},
}

// Extractor turns a parsed OFX tree into statements.
type Extractor struct {
	accounts        repositories.BankAccountReader
	shortener       services.PayeeShortener
	defaultCurrency string
}

// NewExtractor creates an Extractor. accounts and shortener may be nil.
func NewExtractor(accounts repositories.BankAccountReader, shortener services.PayeeShortener, defaultCurrency string) *Extractor {
	if defaultCurrency == "" {
		defaultCurrency = fallbackCurrency
	}
	return &Extractor{accounts: accounts, shortener: shortener, defaultCurrency: defaultCurrency}
}

// Parse runs the whole OFX path on a raw document: isolate the body, repair the SGML, parse the
// markup and extract statements.
func (e *Extractor) Parse(ctx context.Context, doc string, defaults StaticDefaults) ([]*domain.Statement, error) {
	root, err := ParseDocument(doc)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, root, defaults)
}

// ParseDocument isolates the <OFX> body of doc, converts it to markup and parses it.
func ParseDocument(doc string) (*Node, error) {
	body, ok := isolateBody(doc)
	if !ok {
		return nil, fmt.Errorf("%w: no <OFX> marker", apperrors.ErrMalformedDocument)
	}
	return ParseTree(ConvertSGML(body))
}

// Extract builds one statement per bank or credit card account found under root. Accounts
// without an account aggregate or a balance date are skipped.
func (e *Extractor) Extract(ctx context.Context, root *Node, defaults StaticDefaults) ([]*domain.Statement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if root == nil || root.Name != "OFX" {
		return nil, fmt.Errorf("%w: root element is not OFX", apperrors.ErrMalformedDocument)
	}

	bank, bankID, source := resolveBank(root, defaults)
	statements := make([]*domain.Statement, 0)
	ordinal := 0

	for _, section := range accountSections {
		msgSet := root.Child(section.msgSet)
		for _, trnRs := range msgSet.ChildrenNamed(section.trnRs) {
			stmtRs := trnRs.Child(section.stmtRs)
			if stmtRs == nil {
				continue
			}
			ordinal++

			acct := stmtRs.Child(section.acctFrom)
			if acct == nil {
				logger.Warn("Skipping statement without account aggregate", slog.String("section", section.stmtRs), slog.Int("account_ordinal", ordinal))
				continue
			}
			asOf := normalizeOFXDate(stmtRs.Value("LEDGERBAL/DTASOF"))
			if asOf == "" {
				logger.Warn("Skipping account without balance date", slog.String("account", acct.Value("ACCTID")), slog.Int("account_ordinal", ordinal))
				continue
			}

			stmt := domain.NewStatement(bank, e.currency(stmtRs), asOf, ordinal, len(statements)+1)
			stmt.BankID = bankID
			stmt.BankSource = source
			stmt.AccountNumber = acct.Value("ACCTID")
			stmt.Account = e.accountName(ctx, stmt.AccountNumber)

			for _, trn := range stmtRs.Path("BANKTRANLIST").ChildrenNamed("STMTTRN") {
				tx, err := e.transaction(trn)
				if err != nil {
					logger.Warn("Skipping transaction", slog.String("fitid", trn.Value("FITID")), slog.String("error", err.Error()))
					continue
				}
				stmt.AddTransaction(tx)
			}

			if bal, err := parseOFXAmount(stmtRs.Value("LEDGERBAL/BALAMT")); err == nil {
				stmt.EndBalance = bal
				stmt.StartBalance = bal.Sub(stmt.NetAmount())
			}

			if err := stmt.Validate(); err != nil {
				return nil, err
			}
			statements = append(statements, stmt)
		}
	}

	logger.Info("Extracted OFX statements", slog.Int("statements", len(statements)), slog.String("bank", bank), slog.String("bank_source", string(source)))
	return statements, nil
}

// resolveBank prefers the institution block, then the static defaults, then literals.
func resolveBank(root *Node, defaults StaticDefaults) (string, string, domain.BankSource) {
	org := root.Value("SIGNONMSGSRSV1/SONRS/FI/ORG")
	fid := root.Value("SIGNONMSGSRSV1/SONRS/FI/FID")
	if org != "" || fid != "" {
		return firstNonEmpty(org, defaults.AccountName, fallbackBankName), firstNonEmpty(fid, defaults.AccountCode, fallbackBankID), domain.BankSourceDocument
	}
	if defaults.AccountName != "" || defaults.AccountCode != "" {
		return firstNonEmpty(defaults.AccountName, fallbackBankName), firstNonEmpty(defaults.AccountCode, fallbackBankID), domain.BankSourceStatic
	}
	return fallbackBankName, fallbackBankID, domain.BankSourceDefault
}

func (e *Extractor) currency(stmtRs *Node) string {
	if cur := strings.ToUpper(stmtRs.Value("CURDEF")); cur != "" {
		return cur
	}
	return e.defaultCurrency
}

// accountName prefers the name the host has on file for number.
func (e *Extractor) accountName(ctx context.Context, number string) string {
	if e.accounts == nil || number == "" {
		return number
	}
	acct, err := e.accounts.FindBankAccountByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Bank account lookup failed", slog.String("account", number), slog.String("error", err.Error()))
		}
		return number
	}
	if acct == nil {
		return number
	}
	return acct.DisplayName()
}

func (e *Extractor) transaction(trn *Node) (*domain.Transaction, error) {
	posted := normalizeOFXDate(trn.Value("DTPOSTED"))
	if posted == "" {
		return nil, fmt.Errorf("%w: DTPOSTED", apperrors.ErrRequiredFieldMissing)
	}
	amount, err := parseOFXAmount(trn.Value("TRNAMT"))
	if err != nil {
		return nil, fmt.Errorf("%w: TRNAMT: %v", apperrors.ErrValidation, err)
	}

	name := trn.Value("NAME")
	if name == "" {
		name = trn.Value("PAYEE/NAME")
	}
	memo := trn.Value("MEMO")
	if len([]rune(name)) < 2 {
		if derived, ok := nameFromMemo(memo); ok {
			name = derived
		}
	}
	dc, counterparty := classify(trn.Value("TRNTYPE"), memo, name, amount)
	if e.shortener != nil && name != "" {
		name = e.shortener.Shorten(name)
	}
	trnType := domain.TransactionTypeTransfer
	tx := &domain.Transaction{
		ValueTimestamp:  firstNonEmpty(normalizeOFXDate(trn.Value("DTUSER")), posted),
		DatePosted:      posted,
		Amount:          amount.Abs(),
		Memo:            memo,
		Name:            name,
		TransactionType: &trnType,
		TransactionDC:   dc,
		FITID:           trn.Value("FITID"),
		Counterparty:    counterparty,
	}
	if check := trn.Value("CHECKNUM"); check != "" {
		tx.CheckNumber = &check
	}
	return tx, nil
}

// classify applies the direction table to a declared TRNTYPE. Every OFX transaction is a
// transfer; only the direction and the counterparty vary.
func classify(declared, memo, name string, amount decimal.Decimal) (domain.TransactionDC, domain.Counterparty) {
	trnType, err := ofxgo.NewTrnType(strings.ToUpper(strings.TrimSpace(declared)))
	if err != nil {
		return domain.Debit, domain.CounterpartyUnknown
	}

	switch trnType {
	case ofxgo.TrnTypeCredit:
		if amount.IsNegative() {
			return domain.Debit, domain.CounterpartyUnknown
		}
		if strings.Contains(strings.ToUpper(memo+" "+name), "PAYMENT") {
			return domain.Credit, domain.CounterpartyBank
		}
		return domain.Credit, domain.CounterpartyUnknown
	case ofxgo.TrnTypeDep, ofxgo.TrnTypeInt:
		return domain.Credit, domain.CounterpartyUnknown
	default:
		return domain.Debit, domain.CounterpartyUnknown
	}
}

// memoRule extracts a display name from a memo that starts with prefix.
type memoRule struct {
	prefixes []string
	extract  func(parts []string, prefix string) string
}

func segment(i int) func([]string, string) string {
	return func(parts []string, _ string) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
}

// memoRules are tried in order and only the first matching rule is applied.
var memoRules = []memoRule{
	{prefixes: []string{"E-TRANSFER"}, extract: segment(1)},
	{prefixes: []string{"Interest Deposit", "BONUS INTEREST"}, extract: segment(0)},
	{prefixes: []string{"INTERNET TRANSFER"}, extract: segment(1)},
	{prefixes: []string{"External Transfer"}, extract: segment(1)},
	{prefixes: []string{"PAY"}, extract: segment(1)},
	{prefixes: []string{"Pay "}, extract: func(parts []string, prefix string) string {
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), prefix))
	}},
	{prefixes: []string{"DEPOSIT"}, extract: func(parts []string, _ string) string {
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1])
		}
		return strings.TrimSpace(parts[0])
	}},
}

// nameFromMemo applies the first memo rule whose prefix starts memo.
func nameFromMemo(memo string) (string, bool) {
	memo = strings.TrimSpace(memo)
	if memo == "" {
		return "", false
	}
	parts := strings.Split(memo, ";")
	for _, rule := range memoRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(memo, prefix) {
				name := rule.extract(parts, prefix)
				return name, name != ""
			}
		}
	}
	return "", false
}

// normalizeOFXDate turns an OFX datetime ("20240131", "20240131120000.000[-5:EST]") into
// "2006-01-02". Unparseable values yield "".
func normalizeOFXDate(raw string) string {
	digits := raw
	if i := strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = raw[:i]
	}
	for _, layout := range []string{"20060102150405", "200601021504", "2006010215", "20060102"} {
		if len(digits) < len(layout) {
			continue
		}
		if t, err := time.Parse(layout, digits[:len(layout)]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}

// parseOFXAmount accepts both "." and "," as the decimal separator.
func parseOFXAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "+")
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	return decimal.NewFromString(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
