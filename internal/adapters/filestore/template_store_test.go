package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/statement_import/internal/adapters/filestore"
	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate(bank string) domain.MappingTemplate {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.MappingTemplate{
		BankName:          bank,
		Version:           domain.TemplateVersion,
		Created:           now,
		Updated:           now,
		HeaderFingerprint: "0123456789abcdef0123456789abcdef",
		CSVHeaders:        []string{"Date", "Description", "Amount"},
		Mapping:           domain.HeaderMapping{"Date": "date", "Description": "description", "Amount": "amount"},
		Metadata:          map[string]any{"auto_created": true},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "csv_mapping_td_canada.json", filestore.FileName("TD Canada"))
	assert.Equal(t, filestore.FileName("Bank A"), filestore.FileName("bank_a"))
}

func TestTemplateStore_SaveAndFind(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv_mappings")
	store := filestore.NewTemplateStore(dir)
	ctx := context.Background()

	_, err := store.FindTemplateByBank(ctx, "My Bank")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.SaveTemplate(ctx, sampleTemplate("My Bank")))
	assert.FileExists(t, filepath.Join(dir, "csv_mapping_my_bank.json"))

	got, err := store.FindTemplateByBank(ctx, "My Bank")
	require.NoError(t, err)
	assert.Equal(t, "My Bank", got.BankName)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, got.CSVHeaders)
	assert.Equal(t, "amount", got.Mapping["Amount"])
	assert.True(t, got.AutoCreated())
	assert.True(t, got.Created.Equal(sampleTemplate("x").Created))
}

func TestTemplateStore_FileFormat(t *testing.T) {
	dir := t.TempDir()
	store := filestore.NewTemplateStore(dir)
	require.NoError(t, store.SaveTemplate(context.Background(), sampleTemplate("acme")))

	data, err := os.ReadFile(filepath.Join(dir, "csv_mapping_acme.json"))
	require.NoError(t, err)
	for _, key := range []string{`"bank_name"`, `"version"`, `"created"`, `"updated"`, `"header_fingerprint"`, `"csv_headers"`, `"mapping"`, `"metadata"`} {
		assert.Contains(t, string(data), key)
	}
}

func TestTemplateStore_ListTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("missing directory is empty", func(t *testing.T) {
		store := filestore.NewTemplateStore(filepath.Join(t.TempDir(), "nope"))
		templates, err := store.ListTemplates(ctx)
		require.NoError(t, err)
		assert.Empty(t, templates)
	})

	t.Run("sorted by file name, junk skipped", func(t *testing.T) {
		dir := t.TempDir()
		store := filestore.NewTemplateStore(dir)
		require.NoError(t, store.SaveTemplate(ctx, sampleTemplate("zeta")))
		require.NoError(t, store.SaveTemplate(ctx, sampleTemplate("alpha")))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "csv_mapping_broken.json"), []byte("{"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

		templates, err := store.ListTemplates(ctx)
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "alpha", templates[0].BankName)
		assert.Equal(t, "zeta", templates[1].BankName)
	})
}
