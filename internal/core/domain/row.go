package domain

// Row is an ordered string map: keys are unique and remember their insertion order.
// A key that is present with an empty value is different from a missing key.
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// ZipRow pairs headers with fields positionally. Later duplicate headers overwrite earlier
// values but keep the first position.
func ZipRow(headers, fields []string) *Row {
	r := NewRow()
	for i, h := range headers {
		if i < len(fields) {
			r.Set(h, fields[i])
		}
	}
	return r
}

// Set stores value under key.
func (r *Row) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the key is present.
func (r *Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or "" when missing.
func (r *Row) Value(key string) string {
	return r.values[key]
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r *Row) Len() int {
	return len(r.keys)
}

// Apply projects the row through mapping: only headers present in the mapping are copied, and
// they are stored under the canonical field name.
func (r *Row) Apply(mapping HeaderMapping) *Row {
	out := NewRow()
	for _, k := range r.keys {
		if field, ok := mapping[k]; ok {
			out.Set(field, r.values[k])
		}
	}
	return out
}
