package cv

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is a free-form field value attached to an entry: either a single
// scalar or a list of scalars. Scalars keep their source text form.
type Value struct {
	Scalar string
	List   []string
	IsList bool
}

// StringValue wraps a scalar.
func StringValue(s string) Value {
	return Value{Scalar: s}
}

// ListValue wraps a list of scalars.
func ListValue(items ...string) Value {
	return Value{List: items, IsList: true}
}

// Display renders the value for a labeled metadata line.
func (v Value) Display() string {
	if v.IsList {
		return strings.Join(v.List, ", ")
	}
	return v.Scalar
}

// IsEmpty reports whether the value carries no content.
func (v Value) IsEmpty() bool {
	if v.IsList {
		return len(v.List) == 0
	}
	return v.Scalar == ""
}

// MarshalYAML emits the underlying scalar or sequence.
func (v Value) MarshalYAML() (any, error) {
	if v.IsList {
		return v.List, nil
	}
	return v.Scalar, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = Value{List: list, IsList: true}
		return nil
	}
	*v = Value{Scalar: node.Value}
	return nil
}

// Field is one free-form key/value pair on an entry or document.
type Field struct {
	Key   string
	Value Value
}

// Fields preserves the source order of free-form fields. Order matters:
// renderers emit labeled lines in exactly this order.
type Fields []Field

// Get returns the value for key and whether it exists.
func (f Fields) Get(key string) (Value, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the value for key, appending when absent.
func (f Fields) Set(key string, value Value) Fields {
	for i := range f {
		if f[i].Key == key {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Key: key, Value: value})
}

// Keys returns the field names in source order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, fld := range f {
		keys[i] = fld.Key
	}
	return keys
}

// TitleCase turns a field key like "tech_stack" into a display label
// like "Tech Stack".
func TitleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
