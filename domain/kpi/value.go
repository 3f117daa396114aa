package kpi

import (
	"bytes"
	"math"
	"strconv"
)

// Value is an optional float. The zero Value is undefined.
type Value struct {
	v  float64
	ok bool
}

// NewValue creates a defined value. NaN and infinities are stored as undefined.
func NewValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{v: f, ok: true}
}

// Undefined returns the undefined value
func Undefined() Value {
	return Value{}
}

// Get returns the float and whether it is defined
func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

// IsDefined reports whether the value carries a number
func (v Value) IsDefined() bool {
	return v.ok
}

// IsZero reports whether the value is defined and exactly zero
func (v Value) IsZero() bool {
	return v.ok && v.v == 0
}

// Sub subtracts o from v; undefined on either side propagates.
func (v Value) Sub(o Value) Value {
	if !v.ok || !o.ok {
		return Value{}
	}
	return NewValue(v.v - o.v)
}

// Mul multiplies two values; undefined on either side propagates.
func (v Value) Mul(o Value) Value {
	if !v.ok || !o.ok {
		return Value{}
	}
	return NewValue(v.v * o.v)
}

// Div divides v by o. Division by zero yields undefined.
func (v Value) Div(o Value) Value {
	if !v.ok || !o.ok || o.v == 0 {
		return Value{}
	}
	return NewValue(v.v / o.v)
}

// Scale multiplies a value by a constant
func (v Value) Scale(k float64) Value {
	if !v.ok {
		return Value{}
	}
	return NewValue(v.v * k)
}

// String formats the value in shortest round-trip form, or "" when undefined.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// MarshalJSON encodes an undefined value as null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.v, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts a number or null
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(data)), 64)
	if err != nil {
		return err
	}
	*v = NewValue(f)
	return nil
}
