package models

// Record is one line of delimited output.
type Record []Value

// Strings renders every field of the record.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}
