// Package record defines the in-memory data model shared by every step:
// ordered field-to-value mappings and the closed value sum type they hold.
//
// Field order is insertion order and is preserved through cloning and
// serialization boundaries so generated output stays reproducible.
package record

// Record is an ordered mapping from field name to Value. The zero Record is
// empty and ready to use via Set.
type Record struct {
	names  []string
	values map[string]Value
}

// New returns an empty Record
func New() Record {
	return Record{values: make(map[string]Value)}
}

// Set stores a value under a field name, appending the name to the field
// order on first use
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the value for a field and whether the field exists
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value for a field, or the absent value when the field
// does not exist
func (r Record) Value(name string) Value {
	if v, ok := r.values[name]; ok {
		return v
	}
	return Absent()
}

// Has reports whether the field exists on the record
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Fields returns the field names in insertion order
func (r Record) Fields() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields
func (r Record) Len() int {
	return len(r.names)
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	out := Record{
		names:  make([]string, len(r.names)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(out.names, r.names)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// ToMap unwraps the record into a plain map for serialization boundaries.
// Field order is lost; use Fields alongside when order matters.
func (r Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.values))
	for _, name := range r.names {
		out[name] = r.values[name].Interface()
	}
	return out
}

// FromMap builds a Record from a plain map. Field order follows the order
// slice when given, falling back to map iteration order otherwise.
func FromMap(m map[string]any, order []string) Record {
	r := New()
	for _, name := range order {
		if v, ok := m[name]; ok {
			r.Set(name, FromAny(v))
		}
	}
	for name, v := range m {
		if !r.Has(name) {
			r.Set(name, FromAny(v))
		}
	}
	return r
}

// Set is an ordered sequence of Records.
type Set []Record

// Clone returns a deep copy of the set
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for i, r := range s {
		out[i] = r.Clone()
	}
	return out
}

// ToMaps unwraps every record for serialization boundaries
func (s Set) ToMaps() []map[string]any {
	out := make([]map[string]any, len(s))
	for i, r := range s {
		out[i] = r.ToMap()
	}
	return out
}

// SetFromMaps builds a Set from decoded maps. Order within each record
// follows map iteration; callers that need stable field order should decode
// into Records directly.
func SetFromMaps(ms []map[string]any) Set {
	out := make(Set, len(ms))
	for i, m := range ms {
		out[i] = FromMap(m, nil)
	}
	return out
}

// InferFieldKind scans records in order and classifies the column by the
// first non-empty value found: first-non-empty-wins, later conflicting
// values are ignored. Columns with no non-empty value classify as text.
func (s Set) InferFieldKind(field string) Kind {
	for _, r := range s {
		v := r.Value(field)
		if v.IsEmpty() {
			continue
		}
		return v.InferredKind()
	}
	return KindText
}
