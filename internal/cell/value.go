package cell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ISOLayout renders instants the way the grid and the generated SQL expect them.
const ISOLayout = "2006-01-02T15:04:05.000Z"

type Kind uint8

const (
	Null Kind = iota
	Text
	Number
	Time
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Time:
		return "time"
	default:
		return "null"
	}
}

// Value is one spreadsheet cell or grid value. The zero Value is the
// "no value" marker, which is distinct from Text("").
type Value struct {
	kind Kind
	text string
	num  float64
	at   time.Time
}

func NullValue() Value { return Value{} }

func TextValue(s string) Value { return Value{kind: Text, text: s} }

func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

func TimeValue(t time.Time) Value { return Value{kind: Time, at: t} }

// FromEdit applies the grid edit rule: an emptied cell becomes no value,
// anything else is kept exactly as typed.
func FromEdit(text string) Value {
	if text == "" {
		return NullValue()
	}
	return TextValue(text)
}

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no value. NaN numbers count as no value.
func (v Value) IsNull() bool {
	return v.kind == Null || (v.kind == Number && math.IsNaN(v.num))
}

func (v Value) Text() (string, bool) { return v.text, v.kind == Text }

func (v Value) Number() (float64, bool) { return v.num, v.kind == Number }

func (v Value) Time() (time.Time, bool) { return v.at, v.kind == Time }

// String coerces v to text. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Number:
		return FormatNumber(v.num)
	case Time:
		return FormatTime(v.at)
	default:
		return ""
	}
}

// FormatNumber renders f in shortest decimal form without an exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	return decimal.NewFromFloat(f).String()
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.IsNull():
		return []byte("null"), nil
	case v.kind == Number:
		if math.IsInf(v.num, 0) {
			return json.Marshal(FormatNumber(v.num))
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	default:
		return json.Marshal(v.String())
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = NullValue()
		return nil
	}
	switch data[0] {
	case 'n':
		*v = NullValue()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = TextValue(strconv.FormatBool(b))
	case '[', '{':
		return fmt.Errorf("cell: unsupported value %s", truncate(data, 32))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !math.IsInf(f, 0) {
			return fmt.Errorf("cell: invalid number %s", truncate(data, 32))
		}
		*v = NumberValue(f)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
