package sqlb

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrUnsupportedValue reports a Go value that cannot be bound to a placeholder.
	ErrUnsupportedValue = errors.New("[sqlb] unsupported value type")
	// ErrValueOverflow reports an unsigned integer that does not fit in int64.
	ErrValueOverflow = errors.New("[sqlb] integer value overflows int64")
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBlob
	KindOpaque
)

var kindNames = [...]string{"null", "bool", "int", "float", "text", "blob", "opaque"}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// NullType is the type of the Null sentinel.
type NullType struct{}

// Null makes insert and update builders emit a literal null instead of a
// placeholder. Untyped nil behaves the same.
var Null = NullType{}

// Value is something that can be bound to a placeholder.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	blob   []byte
	opaque any
}

// NullValue and the constructors below build a Value of the matching Kind.
func NullValue() Value           { return Value{kind: KindNull} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value     { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func TextValue(s string) Value   { return Value{kind: KindText, s: s} }

// BlobValue copies b.
func BlobValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)

	return Value{kind: KindBlob, blob: cp}
}

// OpaqueValue wraps a value the driver knows how to bind, such as time.Time
// or a driver.Valuer.
func OpaqueValue(v any) Value { return Value{kind: KindOpaque, opaque: v} }

// Kind returns the type tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is KindNull.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns v as a value accepted by database/sql.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.blob
	case KindOpaque:
		return v.opaque
	default:
		return nil
	}
}

// String formats v for logs and test output.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindText:
		return fmt.Sprintf("%q", v.s)
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.blob)
	default:
		return fmt.Sprint(v.Any())
	}
}

// isNullSentinel reports whether v asks for a literal null.
func isNullSentinel(v any) bool {
	switch v.(type) {
	case nil, NullType, *NullType:
		return true
	}

	return false
}

// ToValue converts a Go value into a Value.
// Supported: nil, Null, Value, bool, all sized ints and uints, float32,
// float64, string, []byte, time.Time and driver.Valuer.
func ToValue(v any) (Value, error) {
	switch t := v.(type) {
	case nil, NullType, *NullType:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint:
		return uintValue(uint64(t))
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case uint64:
		return uintValue(t)
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case string:
		return TextValue(t), nil
	case []byte:
		return BlobValue(t), nil
	case time.Time:
		return OpaqueValue(t), nil
	case driver.Valuer:
		return OpaqueValue(t), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d", ErrValueOverflow, u)
	}

	return IntValue(int64(u)), nil
}

// IsEmpty reports whether v is a zero number or a zero-length string or
// byte slice. It is false for every other type.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case int:
		return t == 0
	case int8:
		return t == 0
	case int16:
		return t == 0
	case int32:
		return t == 0
	case int64:
		return t == 0
	case uint:
		return t == 0
	case uint8:
		return t == 0
	case uint16:
		return t == 0
	case uint32:
		return t == 0
	case uint64:
		return t == 0
	case float32:
		return t == 0
	case float64:
		return t == 0
	case string:
		return t == ""
	case []byte:
		return len(t) == 0
	case Value:
		switch t.kind {
		case KindInt:
			return t.i == 0
		case KindFloat:
			return t.f == 0
		case KindText:
			return t.s == ""
		case KindBlob:
			return len(t.blob) == 0
		}
	}

	return false
}

func toAny(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Any()
	}

	return out
}
