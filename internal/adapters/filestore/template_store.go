// Package filestore keeps mapping templates as one JSON file per bank.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/statement_import/internal/apperrors"
	"github.com/SscSPs/statement_import/internal/core/domain"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/middleware"
)

const (
	// DefaultDir is used when no template directory is configured.
	DefaultDir = "csv_mappings"

	filePrefix = "csv_mapping_"
	fileSuffix = ".json"
)

// TemplateStore is a TemplateRepositoryFacade over a directory of JSON files.
type TemplateStore struct {
	dir string
}

var _ portsrepo.TemplateRepositoryFacade = (*TemplateStore)(nil)

// NewTemplateStore creates a store rooted at dir. The directory is created on first save.
func NewTemplateStore(dir string) *TemplateStore {
	if dir == "" {
		dir = DefaultDir
	}
	return &TemplateStore{dir: dir}
}

// FileName returns the file a bank's template is stored in.
func FileName(bankName string) string {
	return filePrefix + domain.TemplateKey(bankName) + fileSuffix
}

// FindTemplateByBank loads the template file for bankName.
func (s *TemplateStore) FindTemplateByBank(ctx context.Context, bankName string) (*domain.MappingTemplate, error) {
	tmpl, err := s.load(filepath.Join(s.dir, FileName(bankName)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return tmpl, nil
}

// ListTemplates loads every template file, in filename order. Files that cannot be decoded are
// skipped with a warning.
func (s *TemplateStore) ListTemplates(ctx context.Context) ([]domain.MappingTemplate, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.MappingTemplate{}, nil
		}
		return nil, fmt.Errorf("failed to read template directory %s: %w", s.dir, err)
	}

	templates := make([]domain.MappingTemplate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		tmpl, err := s.load(filepath.Join(s.dir, name))
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Skipping unreadable mapping template", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		templates = append(templates, *tmpl)
	}
	return templates, nil
}

// SaveTemplate writes tmpl to its file, replacing any previous version.
func (s *TemplateStore) SaveTemplate(ctx context.Context, tmpl domain.MappingTemplate) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create template directory %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping template %s: %w", tmpl.BankName, err)
	}

	path := filepath.Join(s.dir, FileName(tmpl.BankName))
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix)
	if err != nil {
		return fmt.Errorf("failed to save mapping template %s: %w", tmpl.BankName, err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save mapping template %s: %w", tmpl.BankName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save mapping template %s: %w", tmpl.BankName, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save mapping template %s: %w", tmpl.BankName, err)
	}
	return nil
}

func (s *TemplateStore) load(path string) (*domain.MappingTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tmpl domain.MappingTemplate
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return &tmpl, nil
}
