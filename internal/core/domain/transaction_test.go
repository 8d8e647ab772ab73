package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name string
		tx   domain.Transaction
		want string
	}{
		{"debit is negative", domain.Transaction{Amount: decimal.RequireFromString("50"), TransactionDC: domain.Debit}, "-50"},
		{"debit keeps sign from source", domain.Transaction{Amount: decimal.RequireFromString("-50"), TransactionDC: domain.Debit}, "-50"},
		{"credit is positive", domain.Transaction{Amount: decimal.RequireFromString("-12.5"), TransactionDC: domain.Credit}, "12.5"},
		{"transfer passes through", domain.Transaction{Amount: decimal.RequireFromString("-7"), TransactionDC: domain.BankTransfer}, "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(tt.tx.SignedAmount()), "got %s", tt.tx.SignedAmount())
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr bool
	}{
		{
			name: "valid",
			tx: domain.Transaction{
				ValueTimestamp: "2024-01-05",
				DatePosted:     "2024-01-05",
				Amount:         decimal.RequireFromString("42.10"),
				TransactionDC:  domain.Debit,
			},
		},
		{
			name:    "missing dates",
			tx:      domain.Transaction{TransactionDC: domain.Credit},
			wantErr: true,
		},
		{
			name: "unknown direction",
			tx: domain.Transaction{
				ValueTimestamp: "2024-01-05",
				DatePosted:     "2024-01-05",
				TransactionDC:  "SIDEWAYS",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatementID(t *testing.T) {
	assert.Equal(t, "20240131-2-1", domain.StatementID("2024-01-31", 2, 1))
	assert.Equal(t, "20240131120000-0-3", domain.StatementID("20240131120000", 0, 3))

	stmt := domain.NewStatement("Bank", "USD", "2024-03-01", 0, 4)
	assert.Equal(t, "20240301-0-4", stmt.StatementID)
}

func TestStatement_NetAmountAndValidate(t *testing.T) {
	stmt := domain.NewStatement("Bank", "USD", "2024-03-01", 1, 1)
	stmt.AddTransaction(&domain.Transaction{ValueTimestamp: "2024-03-01", DatePosted: "2024-03-01", Amount: decimal.RequireFromString("100"), TransactionDC: domain.Credit})
	stmt.AddTransaction(&domain.Transaction{ValueTimestamp: "2024-03-01", DatePosted: "2024-03-01", Amount: decimal.RequireFromString("30.25"), TransactionDC: domain.Debit})

	assert.True(t, decimal.RequireFromString("69.75").Equal(stmt.NetAmount()))
	assert.NoError(t, stmt.Validate())

	stmt.AddTransaction(&domain.Transaction{Amount: decimal.RequireFromString("1"), TransactionDC: domain.Debit})
	assert.ErrorIs(t, stmt.Validate(), apperrors.ErrValidation)

	noSeq := domain.NewStatement("Bank", "USD", "2024-03-01", 1, 0)
	assert.ErrorIs(t, noSeq.Validate(), apperrors.ErrValidation)
}

func TestRow_OrderAndApply(t *testing.T) {
	row := domain.ZipRow([]string{"Date", "Memo", "Amount", "Memo"}, []string{"2024-01-01", "first", "5", "second"})

	assert.Equal(t, []string{"Date", "Memo", "Amount"}, row.Keys())
	assert.Equal(t, "second", row.Value("Memo"))
	assert.Equal(t, 3, row.Len())

	short := domain.ZipRow([]string{"A", "B"}, []string{"1"})
	assert.True(t, short.Has("A"))
	assert.False(t, short.Has("B"))

	empty := domain.ZipRow([]string{"A"}, []string{""})
	v, ok := empty.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	mapped := row.Apply(domain.HeaderMapping{"Amount": domain.FieldAmount, "Date": domain.FieldDate})
	assert.Equal(t, []string{domain.FieldDate, domain.FieldAmount}, mapped.Keys())
	assert.False(t, mapped.Has("Memo"))
}

func TestHeaderMapping(t *testing.T) {
	m := domain.HeaderMapping{"When": "date", "Out": "debit", "In": "credit"}

	header, ok := m.HeaderFor("debit")
	assert.True(t, ok)
	assert.Equal(t, "Out", header)
	assert.Equal(t, []string{"credit", "date", "debit"}, m.Fields())

	assert.NoError(t, m.Validate([]string{"When", "Out", "In", "Memo"}))
	assert.NoError(t, m.Validate(nil))
	assert.ErrorIs(t, m.Validate([]string{"When"}), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.HeaderMapping{"When": "timestamp"}.Validate(nil), apperrors.ErrValidation)
}

func TestQualityForScore(t *testing.T) {
	assert.Equal(t, domain.QualityExcellent, domain.QualityForScore(100))
	assert.Equal(t, domain.QualityExcellent, domain.QualityForScore(90))
	assert.Equal(t, domain.QualityGood, domain.QualityForScore(89))
	assert.Equal(t, domain.QualityGood, domain.QualityForScore(70))
	assert.Equal(t, domain.QualityFair, domain.QualityForScore(66))
	assert.Equal(t, domain.QualityPoor, domain.QualityForScore(33))
}

func TestMappingTemplate_Validate(t *testing.T) {
	now := time.Now().UTC()
	valid := domain.MappingTemplate{
		BankName:          "acme",
		Version:           domain.TemplateVersion,
		Created:           now,
		Updated:           now,
		HeaderFingerprint: "d41d8cd98f00b204e9800998ecf8427e",
		CSVHeaders:        []string{"Date"},
		Mapping:           domain.HeaderMapping{"Date": "date"},
		Metadata:          map[string]any{"auto_created": true},
	}
	require.NoError(t, valid.Validate())
	assert.True(t, valid.AutoCreated())

	noHeaders := valid
	noHeaders.CSVHeaders = nil
	assert.ErrorIs(t, noHeaders.Validate(), apperrors.ErrValidation)

	badFingerprint := valid
	badFingerprint.HeaderFingerprint = "not-hex"
	assert.ErrorIs(t, badFingerprint.Validate(), apperrors.ErrValidation)

	reviewed := valid
	reviewed.Metadata = map[string]any{"auto_created": "yes"}
	assert.False(t, reviewed.AutoCreated())
}

func TestImportResult(t *testing.T) {
	a := domain.NewStatement("Bank", "USD", "2024-01-02", 0, 1)
	b := domain.NewStatement("Bank", "USD", "2024-01-01", 0, 2)
	b.AddTransaction(&domain.Transaction{})
	r := &domain.ImportResult{
		Resolution:    domain.Resolved(domain.HeaderMapping{}, domain.MappingEvaluation{}, domain.MappingSourceCaller, nil),
		Statements:    map[string]*domain.Statement{"2024-01-02": a, "2024-01-01": b},
		StatementKeys: []string{"2024-01-02", "2024-01-01"},
	}

	assert.False(t, r.NeedsReview())
	assert.Equal(t, []*domain.Statement{a, b}, r.OrderedStatements())
	assert.Equal(t, 1, r.TransactionCount())
}

func TestTemplateKey(t *testing.T) {
	assert.Equal(t, "my_bank_-_1", domain.TemplateKey("My Bank - 1"))
	assert.Equal(t, "caf_", domain.TemplateKey("Café"))
	assert.Equal(t, domain.TemplateKey("Bank A"), domain.TemplateKey("bank_a"))
}
