package core

import (
	"strings"
	"time"
)

// dateLayout is the only wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return Date{}, InvalidInput("txn_date must be YYYY-MM-DD")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, InvalidInput("txn_date must be YYYY-MM-DD")
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return InvalidInput("txn_date must be YYYY-MM-DD")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}

// MonthRange returns the inclusive [first, last] day of the given month.
// February gets 29 days when the year is divisible by 4 and either not
// divisible by 100 or divisible by 400.
func MonthRange(year, month int) (Date, Date, error) {
	if year <= 0 || month <= 0 {
		return Date{}, Date{}, InvalidInput("year & month required")
	}
	if month > 12 {
		return Date{}, Date{}, InvalidInput("invalid month")
	}
	return NewDate(year, month, 1), NewDate(year, month, daysInMonth(year, month)), nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
}
