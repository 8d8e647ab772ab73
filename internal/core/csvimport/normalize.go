package csvimport

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// NormalizeAmount strips everything but digits, '.', '-' and '+' from raw, and drops a leading
// '+'. Unlike the plain strip rule, an amount wrapped in accounting parentheses comes out
// negative: "(12.00)" gives "-12.00", not "12.00".
func NormalizeAmount(raw string) string {
	raw = strings.TrimSpace(raw)
	negative := strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")")

	var b strings.Builder
	b.Grow(len(raw) + 1)
	if negative {
		b.WriteByte('-')
	}
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' || r == '+':
			if !negative {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimPrefix(b.String(), "+")
}

// ParseAmount normalizes raw and parses it as a decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := NormalizeAmount(raw)
	if normalized == "" || normalized == "-" {
		return decimal.Zero, fmt.Errorf("no digits in amount %q", raw)
	}
	return decimal.NewFromString(normalized)
}

// dottedDateLayouts are tried before dateparse: dotted dates are day.month.year.
var dottedDateLayouts = []string{"2.1.2006", "2.1.06"}

// NormalizeDate formats raw as 2006-01-02 when it can be parsed as a date, and returns it
// unchanged otherwise. Dotted dates such as 05.01.2024 read day first.
func NormalizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	for _, layout := range dottedDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return raw
	}
	return t.Format(time.DateOnly)
}

// splitLine parses one CSV line, honoring quotes and embedded delimiters.
func splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

// parseHeaders splits the header line and trims each header.
func parseHeaders(line string) ([]string, error) {
	fields, err := splitLine(line)
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(fields))
	for i, f := range fields {
		headers[i] = strings.TrimSpace(f)
	}
	return headers, nil
}
