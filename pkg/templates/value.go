package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindStructured:
		return "structured"
	default:
		return "null"
	}
}

// Value is a single payload value. The zero Value is null.
// Integral numbers keep their decimal text in str so values beyond the
// float64 mantissa render and marshal unchanged.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	t    time.Time
	obj  any
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Int(n int64) Value {
	return Value{kind: KindNumber, num: float64(n), str: strconv.FormatInt(n, 10)}
}
func Uint(n uint64) Value {
	return Value{kind: KindNumber, num: float64(n), str: strconv.FormatUint(n, 10)}
}
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func Structured(v any) Value { return Value{kind: KindStructured, obj: v} }
func Null() Value            { return Value{} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Raw returns the Go value. Integral numbers come back as json.Number.
func (v Value) Raw() any { return v.native() }

// From converts a Go value into a Value. Maps, slices and structs become
// structured values.
func From(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Uint(uint64(t))
	case uint8:
		return Uint(uint64(t))
	case uint16:
		return Uint(uint64(t))
	case uint32:
		return Uint(uint64(t))
	case uint64:
		return Uint(t)
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case json.Number:
		return fromJSONNumber(t)
	case time.Time:
		return Time(t)
	case *time.Time:
		if t == nil {
			return Null()
		}
		return Time(*t)
	default:
		return Structured(t)
	}
}

// String returns the text substituted into templates.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.str != "" {
			return v.str
		}
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindStructured:
		b, err := json.Marshal(v.obj)
		if err != nil {
			return fmt.Sprint(v.obj)
		}
		return string(b)
	default:
		return ""
	}
}

// fromJSONNumber keeps the literal of integral numbers; fractions and
// exponents go through float64.
func fromJSONNumber(n json.Number) Value {
	lit := n.String()
	if isIntegerLiteral(lit) {
		f, _ := strconv.ParseFloat(lit, 64)
		return Value{kind: KindNumber, num: f, str: lit}
	}
	if f, err := n.Float64(); err == nil {
		return Number(f)
	}
	return String(lit)
}

func isIntegerLiteral(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (v Value) native() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.str != "" {
			return json.Number(v.str)
		}
		return v.num
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindStructured:
		return v.obj
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(formatNumber(v.num))
		}
	}
	return json.Marshal(v.native())
}

// UnmarshalJSON decodes any JSON value. Strings stay strings, even when they
// look like timestamps.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = From(raw)
	return nil
}

// UnmarshalYAML decodes a YAML scalar, sequence or mapping.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*v = From(raw)
	return nil
}

// Payload holds the values available to template placeholders.
type Payload map[string]Value

// PayloadFrom converts a plain map into a Payload.
func PayloadFrom(m map[string]any) Payload {
	if m == nil {
		return nil
	}
	p := make(Payload, len(m))
	for k, x := range m {
		p[k] = From(x)
	}
	return p
}

// Strings converts every value with Value.String.
func (p Payload) Strings() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v.String()
	}
	return out
}

// Clone returns a shallow copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
