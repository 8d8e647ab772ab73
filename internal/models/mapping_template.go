package models

import "time"

// MappingTemplate is a row of the csv_mapping_templates table. Mapping and Metadata are stored
// as JSONB.
type MappingTemplate struct {
	BankKey           string    `db:"bank_key"`
	BankName          string    `db:"bank_name"`
	Version           string    `db:"version"`
	HeaderFingerprint string    `db:"header_fingerprint"`
	CSVHeaders        []string  `db:"csv_headers"`
	Mapping           []byte    `db:"mapping"`
	Metadata          []byte    `db:"metadata"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
