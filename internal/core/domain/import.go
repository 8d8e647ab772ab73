package domain

// ImportResult is what one CSV parse run produces: either statements keyed by statement key,
// or a NeedsReview resolution and no statements.
type ImportResult struct {
	ImportID      string                `json:"importID"`
	Resolution    MappingResolution     `json:"resolution"`
	Headers       []string              `json:"headers"`
	Statements    map[string]*Statement `json:"statements"`
	StatementKeys []string              `json:"statementKeys"` // creation order
	Warnings      []string              `json:"warnings,omitempty"`
	RowsRead      int                   `json:"rowsRead"`
	RowsSkipped   int                   `json:"rowsSkipped"`
	TemplateSaved bool                  `json:"templateSaved"`
}

// NeedsReview reports whether the caller has to supply a mapping and re-run.
func (r *ImportResult) NeedsReview() bool {
	return r.Resolution.Status == ResolutionNeedsReview
}

// OrderedStatements returns the statements in creation order.
func (r *ImportResult) OrderedStatements() []*Statement {
	out := make([]*Statement, 0, len(r.StatementKeys))
	for _, k := range r.StatementKeys {
		out = append(out, r.Statements[k])
	}
	return out
}

// TransactionCount sums transactions across statements.
func (r *ImportResult) TransactionCount() int {
	n := 0
	for _, s := range r.Statements {
		n += len(s.Transactions)
	}
	return n
}
