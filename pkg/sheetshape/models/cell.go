// Package models defines data structures for spreadsheet structure inference
// and cleaning.
package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is a missing value.
	KindNull Kind = iota
	// KindNumber is a value the sheet reader stored as a number.
	KindNumber
	// KindText is arbitrary text, kept verbatim.
	KindText
	// KindBool is a boolean, either native or produced by flag normalization.
	KindBool
	// KindDateTime is a date or timestamp.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	}
	return "unknown"
}

// DateTimeLayout is the text layout used when a DateTime is rendered as a string.
const DateTimeLayout = "2006-01-02 15:04:05"

// Value is a typed cell value. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value. NaN and infinities are stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return Value{kind: KindNumber, num: f}
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// DateTime returns a date/time value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the text payload.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

// Boolean returns the boolean payload.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the date/time payload.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDateTime }

// Equal reports whether v and o hold the same variant and payload.
// Two nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.b == o.b
	case KindDateTime:
		return v.t.Equal(o.t)
	}
	return true
}

// String renders v for display and for text comparisons. Null renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return cast.ToString(v.num)
	case KindText:
		return v.text
	case KindBool:
		return cast.ToString(v.b)
	case KindDateTime:
		return v.t.Format(DateTimeLayout)
	}
	return ""
}

// Interface returns v as a plain Go value: nil, float64, string, bool or time.Time.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBool:
		return v.b
	case KindDateTime:
		return v.t
	}
	return nil
}

// MarshalJSON encodes v as its natural JSON type; DateTime uses RFC 3339.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindDateTime {
		return json.Marshal(v.t.Format(time.RFC3339))
	}
	return json.Marshal(v.Interface())
}
