package attribution

import "encoding/json"

// FieldTypeHidden marks fields appended by Merge.
const FieldTypeHidden = "hidden"

// Field is one entry of a submitted form.
type Field struct {
	ID        string `json:"id"`
	Type      string `json:"type,omitempty"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	RawValue  string `json:"rawValue"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// FieldSet is an id-keyed set of fields that remembers insertion order.
type FieldSet struct {
	order  []string
	fields map[string]Field
}

// NewFieldSet builds a set from fields in order. A later field with an id that is
// already present is ignored.
func NewFieldSet(fields ...Field) *FieldSet {
	fs := &FieldSet{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		fs.Add(f)
	}
	return fs
}

// Add appends f and reports whether it was added. Existing ids are never replaced.
func (fs *FieldSet) Add(f Field) bool {
	if fs.fields == nil {
		fs.fields = make(map[string]Field)
	}
	if _, ok := fs.fields[f.ID]; ok {
		return false
	}
	fs.order = append(fs.order, f.ID)
	fs.fields[f.ID] = f
	return true
}

func (fs *FieldSet) Has(id string) bool {
	_, ok := fs.fields[id]
	return ok
}

func (fs *FieldSet) Get(id string) (Field, bool) {
	f, ok := fs.fields[id]
	return f, ok
}

func (fs *FieldSet) Len() int {
	return len(fs.order)
}

// Fields returns the fields in insertion order.
func (fs *FieldSet) Fields() []Field {
	out := make([]Field, 0, len(fs.order))
	for _, id := range fs.order {
		out = append(out, fs.fields[id])
	}
	return out
}

// Clone returns an independent copy.
func (fs *FieldSet) Clone() *FieldSet {
	return NewFieldSet(fs.Fields()...)
}

func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(fs.Fields())
}

func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*fs = *NewFieldSet(fields...)
	return nil
}

// Lookup returns the last-touch value for key, falling back to first touch and
// then to the empty string.
func Lookup(rec Record, key Key) string {
	if rec == nil {
		return ""
	}
	if v, ok := rec.Get(Last, key); ok {
		return v
	}
	if v, ok := rec.Get(First, key); ok {
		return v
	}
	return ""
}

// FillValue returns the sanitized last-touch value for key, or the first-touch
// value when last touch is missing or empty.
func FillValue(rec Record, key Key) string {
	if rec == nil {
		return ""
	}
	if v, ok := rec.Get(Last, key); ok {
		if v = SanitizeValue(v); v != "" {
			return v
		}
	}
	v, _ := rec.Get(First, key)
	return SanitizeValue(v)
}

// Merge appends one hidden field per tracked key that has a stored value and is
// not already defined by the form. A nil set or record leaves the input as is.
func Merge(fields *FieldSet, rec Record) *FieldSet {
	if fields == nil || rec == nil {
		return fields
	}
	for _, k := range keys {
		val := SanitizeValue(Lookup(rec, k))
		if val == "" || fields.Has(string(k)) {
			continue
		}
		fields.Add(Field{
			ID:        string(k),
			Type:      FieldTypeHidden,
			Label:     k.Label(),
			Value:     val,
			RawValue:  val,
			Synthetic: true,
		})
	}
	return fields
}

// Resolve returns the stored value for (scope, rawKey) or fallback when the key
// sanitizes to nothing or the value is absent or empty.
func Resolve(rec Record, scope Scope, rawKey, fallback string) string {
	key := SanitizeKey(rawKey)
	if key == "" || rec == nil {
		return fallback
	}
	if v, ok := rec.Get(scope, Key(key)); ok && v != "" {
		return v
	}
	return fallback
}
