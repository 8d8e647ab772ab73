package domain

import (
	"fmt"
	"strings"
	"time"
)

// TemplateVersion is written into every saved mapping template.
const TemplateVersion = "1.0"

// MappingTemplate is a persisted, bank-specific header→field assignment together with the
// header set it was derived from.
type MappingTemplate struct {
	BankName          string         `json:"bank_name" validate:"required"`
	Version           string         `json:"version" validate:"required"`
	Created           time.Time      `json:"created" validate:"required"`
	Updated           time.Time      `json:"updated" validate:"required"`
	HeaderFingerprint string         `json:"header_fingerprint" validate:"required,hexadecimal"`
	CSVHeaders        []string       `json:"csv_headers" validate:"required,min=1"`
	Mapping           HeaderMapping  `json:"mapping" validate:"required"`
	Metadata          map[string]any `json:"metadata"`
}

// Validate checks the template before it is written.
func (t MappingTemplate) Validate() error {
	return validateStruct(fmt.Sprintf("mapping template %q", t.BankName), t)
}

// TemplateKey is the storage key for a bank's template: name lowercased, with every character
// outside [a-z0-9_-] replaced by '_'. Names that share a key share a template in every store.
func TemplateKey(bankName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(bankName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// AutoCreated reports whether the template was saved without human review.
func (t MappingTemplate) AutoCreated() bool {
	v, ok := t.Metadata["auto_created"].(bool)
	return ok && v
}
