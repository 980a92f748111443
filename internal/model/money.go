package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money is a float64 that also accepts numeric JSON strings, matching
// the lax inputs the import tooling sends ("1234.50" vs 1234.50).
// Null and empty strings coerce to 0, like an empty spreadsheet cell;
// anything else non-numeric is a coercion error.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*m = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q", str)
		}
		*m = Money(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid numeric value %s", s)
	}
	*m = Money(f)
	return nil
}

// NullMoney is a Money destined for a nullable column: null and empty
// strings mean NULL rather than 0. Quantity and unit price use it so
// an empty cell in an imported row stays NULL instead of failing the
// row or recording a zero quantity.
type NullMoney struct {
	Value *float64
}

func (n *NullMoney) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		n.Value = nil
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if strings.TrimSpace(str) == "" {
			n.Value = nil
			return nil
		}
	}
	var m Money
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	f := float64(m)
	n.Value = &f
	return nil
}

// moneyOr returns the coerced value, or def when the field was absent.
func moneyOr(m *Money, def float64) float64 {
	if m == nil {
		return def
	}
	return float64(*m)
}

// nullMoneyPtr converts an optional NullMoney into a nullable column
// value. An absent field and an explicit null both map to NULL.
func nullMoneyPtr(n *NullMoney) *float64 {
	if n == nil {
		return nil
	}
	return n.Value
}

// strOr returns the request value, or def when the field was absent.
func strOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// has reports whether a required string field is present and non-empty.
func has(s *string) bool {
	return s != nil && *s != ""
}
