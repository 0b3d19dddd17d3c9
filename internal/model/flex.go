// Package model provides data models for the resource tracker.
package model

import (
	"encoding/json"
	"strconv"
)

// FlexFloat holds a value that was expected to be numeric but may have
// resisted extraction, in which case the original text is preserved.
// It marshals as a JSON number when valid and as the raw string otherwise.
type FlexFloat struct {
	Value float64 // Parsed value, meaningful only when Valid
	Raw   string  // Original text, kept when parsing failed
	Valid bool    // True when Value holds a parsed number
}

// Float returns a FlexFloat holding a parsed number.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// RawFloat returns a FlexFloat holding unparseable source text.
func RawFloat(raw string) FlexFloat {
	return FlexFloat{Raw: raw}
}

// IsZero reports whether the field was never set at all.
func (f FlexFloat) IsZero() bool {
	return !f.Valid && f.Raw == ""
}

// Float64 returns the parsed value, or 0 when the field is raw or unset.
func (f FlexFloat) Float64() float64 {
	if f.Valid {
		return f.Value
	}
	return 0
}

// String renders the field for tabular output: the shortest exact decimal
// form for numbers, the original text otherwise.
func (f FlexFloat) String() string {
	if f.Valid {
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	}
	return f.Raw
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Valid {
		return json.Marshal(f.Value)
	}
	if f.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(f.Raw)
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a number, a string,
// or null, matching what MarshalJSON can produce.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FlexFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexFloat{Value: v, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = FlexFloat{Raw: s}
	return nil
}

// FlexInt is the integer counterpart of FlexFloat, used for fields such as
// the CPU core count where the source text may not be a clean integer.
type FlexInt struct {
	Value int
	Raw   string
	Valid bool
}

// Int returns a FlexInt holding a parsed integer.
func Int(v int) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

// RawInt returns a FlexInt holding unparseable source text.
func RawInt(raw string) FlexInt {
	return FlexInt{Raw: raw}
}

// IsZero reports whether the field was never set at all.
func (f FlexInt) IsZero() bool {
	return !f.Valid && f.Raw == ""
}

// String renders the field for tabular output.
func (f FlexInt) String() string {
	if f.Valid {
		return strconv.Itoa(f.Value)
	}
	return f.Raw
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if f.Valid {
		return json.Marshal(f.Value)
	}
	if f.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(f.Raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FlexInt{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexInt{Value: v, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = FlexInt{Raw: s}
	return nil
}
