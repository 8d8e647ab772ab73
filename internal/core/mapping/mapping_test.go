package mapping_test

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/core/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(header string, values ...string) []*domain.Row {
	out := make([]*domain.Row, 0, len(values))
	for _, v := range values {
		r := domain.NewRow()
		r.Set(header, v)
		out = append(out, r)
	}
	return out
}

func field(t *testing.T, name string) domain.FieldDefinition {
	t.Helper()
	f, ok := domain.FieldByName(name)
	require.True(t, ok, "field %s missing from catalog", name)
	return f
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "amount", b: "amount", want: 100},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "split common run", a: "world", b: "word", want: 800.0 / 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, mapping.Similarity(tt.a, tt.b), 0.0001)
			assert.InDelta(t, mapping.Similarity(tt.a, tt.b), mapping.Similarity(tt.b, tt.a), 0.0001)
		})
	}
}

func TestScoreHeader_ExactNameIs100(t *testing.T) {
	for _, f := range domain.FieldCatalog {
		header := "  " + strings.ToUpper(f.Name) + " "
		assert.Equal(t, 100, mapping.ScoreHeader(header, f, nil), f.Name)
	}
}

func TestScoreHeader_ExactSynonymIs95(t *testing.T) {
	for _, f := range domain.FieldCatalog {
		for _, syn := range f.Synonyms {
			if syn == f.Name {
				continue
			}
			assert.Equal(t, 95, mapping.ScoreHeader(strings.ToUpper(syn), f, nil), "%s/%s", f.Name, syn)
		}
	}
}

func TestScoreHeader_FuzzyIsCappedAt80(t *testing.T) {
	f := field(t, domain.FieldDate)
	score := mapping.ScoreHeader("Transaction Dte", f, nil)
	assert.Greater(t, score, 30)
	assert.LessOrEqual(t, score, 80)
}

func TestScoreHeader_PatternBonus(t *testing.T) {
	f := field(t, domain.FieldDate)
	header := "Col1"
	base := mapping.ScoreHeader(header, f, nil)

	t.Run("most samples match", func(t *testing.T) {
		samples := rows(header, "2024-01-02", "01/03/2024", "", "2024-01-05", "pending")
		assert.Equal(t, base+20, mapping.ScoreHeader(header, f, samples))
	})
	t.Run("below seventy percent", func(t *testing.T) {
		samples := rows(header, "2024-01-02", "n/a", "pending")
		assert.Equal(t, base, mapping.ScoreHeader(header, f, samples))
	})
	t.Run("only empty samples", func(t *testing.T) {
		samples := rows(header, "", "  ")
		assert.Equal(t, base, mapping.ScoreHeader(header, f, samples))
	})
	t.Run("field without pattern", func(t *testing.T) {
		desc := field(t, domain.FieldDescription)
		samples := rows(header, "2024-01-02", "2024-01-03")
		assert.Equal(t, mapping.ScoreHeader(header, desc, nil), mapping.ScoreHeader(header, desc, samples))
	})
}

func TestSuggest_TransDateMerchantAmount(t *testing.T) {
	headers := []string{"Trans Date", "Merchant", "Amount"}

	got := mapping.Suggest(headers, nil)

	assert.Equal(t, domain.HeaderMapping{
		"Trans Date": domain.FieldDate,
		"Merchant":   domain.FieldDescription,
		"Amount":     domain.FieldAmount,
	}, got)

	eval := mapping.Evaluate(got)
	assert.Equal(t, 100, eval.Score)
	assert.Equal(t, domain.QualityExcellent, eval.Quality)
	assert.Empty(t, eval.MissingRequired)
}

func TestSuggest_DebitCreditLeavesAmountUnmapped(t *testing.T) {
	headers := []string{"Date", "Description", "Debit", "Credit"}

	got := mapping.Suggest(headers, nil)

	assert.Equal(t, domain.HeaderMapping{
		"Date":        domain.FieldDate,
		"Description": domain.FieldDescription,
		"Debit":       domain.FieldDebit,
		"Credit":      domain.FieldCredit,
	}, got)

	eval := mapping.Evaluate(got)
	assert.Equal(t, 66, eval.Score)
	assert.Equal(t, domain.QualityFair, eval.Quality)
	assert.Equal(t, []string{domain.FieldAmount}, eval.MissingRequired)
}

func TestScoreHeader_AmountBonusNeedsMixedSigns(t *testing.T) {
	f := field(t, domain.FieldAmount)
	header := "Debit"
	base := mapping.ScoreHeader(header, f, nil)
	require.LessOrEqual(t, base, 30)

	t.Run("unsigned column", func(t *testing.T) {
		samples := rows(header, "25.00", "", "900.00")
		assert.Equal(t, base, mapping.ScoreHeader(header, f, samples))
	})
	t.Run("signed column", func(t *testing.T) {
		samples := rows(header, "-25.00", "1500.00", "(900.00)")
		assert.Equal(t, base+20, mapping.ScoreHeader(header, f, samples))
	})
}

func TestSuggest_DebitCreditWithSamples(t *testing.T) {
	headers := []string{"Date", "Description", "Debit", "Credit"}
	samples := []*domain.Row{
		domain.ZipRow(headers, []string{"2024-01-05", "Coffee", "25.00", ""}),
		domain.ZipRow(headers, []string{"2024-01-06", "Salary", "", "1500.00"}),
		domain.ZipRow(headers, []string{"2024-01-07", "Rent", "900.00", ""}),
	}

	got := mapping.Suggest(headers, samples)

	assert.Equal(t, domain.FieldDebit, got["Debit"])
	assert.Equal(t, domain.FieldCredit, got["Credit"])
	assert.NotContains(t, got.Fields(), domain.FieldAmount)
	assert.NotEqual(t, domain.QualityExcellent, mapping.Evaluate(got).Quality)
}

func TestSuggest_OneHeaderPerField(t *testing.T) {
	headers := []string{"Date", "Posting Date", "Memo", "Amount"}

	got := mapping.Suggest(headers, nil)

	assert.Equal(t, domain.FieldDate, got["Date"])
	seen := map[string]string{}
	for header, f := range got {
		prev, dup := seen[f]
		assert.False(t, dup, "field %s claimed by %q and %q", f, prev, header)
		seen[f] = header
	}
}

func TestSuggest_IsDeterministic(t *testing.T) {
	headers := []string{"Posted", "Details", "Withdrawals", "Deposits", "Running Balance", "Ref"}
	first := mapping.Suggest(headers, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, mapping.Suggest(headers, nil))
	}
}

func TestEvaluate_Monotonic(t *testing.T) {
	steps := []struct {
		header, field string
	}{
		{"Misc", domain.FieldCategory},
		{"Date", domain.FieldDate},
		{"Description", domain.FieldDescription},
		{"Amount", domain.FieldAmount},
	}
	m := domain.HeaderMapping{}
	prev := mapping.Evaluate(m).Score
	assert.Equal(t, domain.QualityPoor, mapping.Evaluate(m).Quality)
	for _, s := range steps {
		m[s.header] = s.field
		score := mapping.Evaluate(m).Score
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
	assert.Equal(t, 100, prev)
}

func TestQualityForScore(t *testing.T) {
	assert.Equal(t, domain.QualityExcellent, domain.QualityForScore(90))
	assert.Equal(t, domain.QualityGood, domain.QualityForScore(89))
	assert.Equal(t, domain.QualityGood, domain.QualityForScore(70))
	assert.Equal(t, domain.QualityFair, domain.QualityForScore(50))
	assert.Equal(t, domain.QualityPoor, domain.QualityForScore(49))
}

func TestFingerprint_OrderCaseWhitespaceInsensitive(t *testing.T) {
	a := []string{"Date", "  Amount ", "Trans   Desc"}
	b := []string{"trans desc", "AMOUNT", "date"}
	assert.Equal(t, mapping.Fingerprint(a), mapping.Fingerprint(b))
	assert.Len(t, mapping.Fingerprint(a), 32)
	assert.NotEqual(t, mapping.Fingerprint(a), mapping.Fingerprint([]string{"date", "amount"}))
}

func TestJaccard(t *testing.T) {
	stored := []string{"Date", "Description", "Amount", "Balance", "Reference", "Category"}
	input := append(append([]string{}, stored...), "Notes")

	assert.InDelta(t, 6.0/7.0, mapping.Jaccard(input, stored), 0.0001)
	assert.InDelta(t, 1.0, mapping.Jaccard([]string{" DATE "}, []string{"date"}), 0.0001)
	assert.Zero(t, mapping.Jaccard(nil, nil))
}

func template(bank string, headers ...string) domain.MappingTemplate {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.MappingTemplate{
		BankName:          bank,
		Version:           domain.TemplateVersion,
		Created:           now,
		Updated:           now,
		HeaderFingerprint: mapping.Fingerprint(headers),
		CSVHeaders:        headers,
		Mapping:           domain.HeaderMapping{},
	}
}

func TestSelectTemplate(t *testing.T) {
	six := []string{"Date", "Description", "Amount", "Balance", "Reference", "Category"}
	seven := append(append([]string{}, six...), "Notes")
	other := template("other", "Posted", "Payee", "Value")
	sixTmpl := template("six", six...)

	t.Run("named bank with equal fingerprint", func(t *testing.T) {
		named := template("named", seven...)
		got, kind, _ := mapping.SelectTemplate(seven, &named, []domain.MappingTemplate{other})
		require.NotNil(t, got)
		assert.Equal(t, mapping.MatchNamed, kind)
		assert.Equal(t, "named", got.BankName)
	})

	t.Run("named bank with different fingerprint falls through", func(t *testing.T) {
		named := template("named", "x", "y")
		got, kind, _ := mapping.SelectTemplate(six, &named, []domain.MappingTemplate{other, sixTmpl})
		require.NotNil(t, got)
		assert.Equal(t, mapping.MatchExact, kind)
		assert.Equal(t, "six", got.BankName)
	})

	t.Run("fuzzy picks the close template", func(t *testing.T) {
		got, kind, score := mapping.SelectTemplate(seven, nil, []domain.MappingTemplate{other, sixTmpl})
		require.NotNil(t, got)
		assert.Equal(t, mapping.MatchFuzzy, kind)
		assert.Equal(t, "six", got.BankName)
		assert.InDelta(t, 6.0/7.0, score, 0.0001)
	})

	t.Run("exact beats better-looking fuzzy", func(t *testing.T) {
		exact := template("exact", seven...)
		got, kind, _ := mapping.SelectTemplate(seven, nil, []domain.MappingTemplate{sixTmpl, exact})
		require.NotNil(t, got)
		assert.Equal(t, mapping.MatchExact, kind)
		assert.Equal(t, "exact", got.BankName)
	})

	t.Run("below threshold", func(t *testing.T) {
		got, kind, _ := mapping.SelectTemplate([]string{"Date", "Amount", "Memo"}, nil, []domain.MappingTemplate{other, sixTmpl})
		assert.Nil(t, got)
		assert.Equal(t, mapping.MatchNone, kind)
	})
}
