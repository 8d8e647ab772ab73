package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/utils/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingTemplate_ModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tmpl := domain.MappingTemplate{
		BankName:          "Bank A",
		Version:           domain.TemplateVersion,
		Created:           now,
		Updated:           now,
		HeaderFingerprint: "0123456789abcdef0123456789abcdef",
		CSVHeaders:        []string{"Date", "Description", "Amount"},
		Mapping:           domain.HeaderMapping{"Date": domain.FieldDate, "Description": domain.FieldDescription, "Amount": domain.FieldAmount},
	}

	row, err := mapping.ToModelMappingTemplate(tmpl)
	require.NoError(t, err)
	assert.Equal(t, "bank_a", row.BankKey)
	assert.Equal(t, "Bank A", row.BankName)
	assert.JSONEq(t, `{}`, string(row.Metadata))

	back, err := mapping.ToDomainMappingTemplate(row)
	require.NoError(t, err)
	assert.Equal(t, tmpl.BankName, back.BankName)
	assert.Equal(t, tmpl.Mapping, back.Mapping)
	assert.Equal(t, tmpl.CSVHeaders, back.CSVHeaders)
}
