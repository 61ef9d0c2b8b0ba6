// Package core holds the domain model: categories, transactions, money,
// calendar dates and the monthly aggregation logic. It never touches the
// store or the network and never logs.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact decimal amount held as cents. All arithmetic is done
// on cents so repeated accumulation cannot drift.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money with half-up rounding on
// the third fractional digit. Both dot and comma separators are accepted,
// as is a leading minus: a summary's net balance can be negative, so the
// codec must round-trip it. Request amounts are kept non-negative by
// TransactionInput.Validate, not here.
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,344") -> 1234 cents (rounds down)
//	ParseAmount("12.346") -> 1235 cents (rounds up)
//	ParseAmount("-50")    -> -5000 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" || strings.HasPrefix(s, "+") {
		return Money{}, InvalidInput("category_id & amount>=0 required")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, InvalidInput("category_id & amount>=0 required")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, InvalidInput("category_id & amount>=0 required")
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, InvalidInput("category_id & amount>=0 required")
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, InvalidInput("category_id & amount>=0 required")
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// String formats the amount as a plain decimal, trailing zeros trimmed
// for whole amounts ("50", "12.34").
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	var s string
	if cents%100 == 0 {
		s = strconv.FormatInt(cents/100, 10)
	} else {
		s = strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	}
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON emits the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return InvalidInput("category_id & amount>=0 required")
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	m.Cents = parsed.Cents
	return nil
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
