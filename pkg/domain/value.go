package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldValueKind discriminates the closed value union used for custom and
// characteristic fields.
type FieldValueKind string

// Supported value kinds. Anything else is rejected at decode time.
const (
	KindNull   FieldValueKind = "null"
	KindString FieldValueKind = "string"
	KindNumber FieldValueKind = "number"
	KindBool   FieldValueKind = "bool"
)

// FieldValue is a closed union of string | number | boolean | null.
// The zero value is null. It marshals to the plain JSON scalar, not a
// tagged envelope, so snapshots stay hand-editable.
type FieldValue struct {
	kind FieldValueKind
	str  string
	num  float64
	b    bool
}

// NullValue returns the null member of the union.
func NullValue() FieldValue { return FieldValue{kind: KindNull} }

// StringValue wraps a string.
func StringValue(s string) FieldValue { return FieldValue{kind: KindString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) FieldValue { return FieldValue{kind: KindNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) FieldValue { return FieldValue{kind: KindBool, b: b} }

// Kind returns the union discriminator.
func (v FieldValue) Kind() FieldValueKind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is the null member.
func (v FieldValue) IsNull() bool { return v.Kind() == KindNull }

// AsString returns the string payload; ok is false for other kinds.
func (v FieldValue) AsString() (string, bool) { return v.str, v.Kind() == KindString }

// AsNumber returns the numeric payload; ok is false for other kinds.
func (v FieldValue) AsNumber() (float64, bool) { return v.num, v.Kind() == KindNumber }

// AsBool returns the boolean payload; ok is false for other kinds.
func (v FieldValue) AsBool() (bool, bool) { return v.b, v.Kind() == KindBool }

// String renders the value for logs and summaries.
func (v FieldValue) String() string {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// MarshalJSON writes the bare scalar.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts only the four scalar members of the union.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(val)
	case float64:
		*v = NumberValue(val)
	case bool:
		*v = BoolValue(val)
	default:
		return fmt.Errorf("field value must be string, number, boolean or null, got %T", raw)
	}
	return nil
}
