package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/statement_import/internal/core/domain"
	"github.com/SscSPs/statement_import/internal/models"
)

// ToModelMappingTemplate converts a domain MappingTemplate to its table row.
func ToModelMappingTemplate(d domain.MappingTemplate) (models.MappingTemplate, error) {
	mappingJSON, err := json.Marshal(d.Mapping)
	if err != nil {
		return models.MappingTemplate{}, fmt.Errorf("failed to encode mapping for %s: %w", d.BankName, err)
	}
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return models.MappingTemplate{}, fmt.Errorf("failed to encode metadata for %s: %w", d.BankName, err)
	}
	return models.MappingTemplate{
		BankKey:           domain.TemplateKey(d.BankName),
		BankName:          d.BankName,
		Version:           d.Version,
		HeaderFingerprint: d.HeaderFingerprint,
		CSVHeaders:        d.CSVHeaders,
		Mapping:           mappingJSON,
		Metadata:          metadataJSON,
		CreatedAt:         d.Created,
		UpdatedAt:         d.Updated,
	}, nil
}

// ToDomainMappingTemplate converts a table row to a domain MappingTemplate.
func ToDomainMappingTemplate(m models.MappingTemplate) (domain.MappingTemplate, error) {
	d := domain.MappingTemplate{
		BankName:          m.BankName,
		Version:           m.Version,
		HeaderFingerprint: m.HeaderFingerprint,
		CSVHeaders:        m.CSVHeaders,
		Created:           m.CreatedAt,
		Updated:           m.UpdatedAt,
	}
	if err := json.Unmarshal(m.Mapping, &d.Mapping); err != nil {
		return domain.MappingTemplate{}, fmt.Errorf("failed to decode mapping for %s: %w", m.BankName, err)
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &d.Metadata); err != nil {
			return domain.MappingTemplate{}, fmt.Errorf("failed to decode metadata for %s: %w", m.BankName, err)
		}
	}
	return d, nil
}
