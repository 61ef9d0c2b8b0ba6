package core

import (
	"strings"
	"time"
)

const (
	Spend  CategoryType = "SPEND"
	Income CategoryType = "INCOME"
)

type (
	// CategoryType partitions categories and transactions into
	// spending and income.
	CategoryType string

	// Category is a named grouping of transactions.
	Category struct {
		ID        int64        `json:"id"`
		Name      string       `json:"name"`
		Type      CategoryType `json:"type"`
		CreatedAt time.Time    `json:"created_at"`
	}

	// Transaction is a single dated monetary event tied to one category.
	// CategoryName is joined in at read time and never stored.
	Transaction struct {
		ID           int64        `json:"id"`
		Type         CategoryType `json:"type"`
		CategoryID   int64        `json:"category_id"`
		CategoryName string       `json:"category_name"`
		Amount       Money        `json:"amount"`
		Method       string       `json:"method,omitempty"`
		Note         string       `json:"note,omitempty"`
		TxnDate      Date         `json:"txn_date"`
		CreatedAt    time.Time    `json:"created_at"`
	}

	// CategoryInput is the typed request body for category writes.
	CategoryInput struct {
		Name string       `json:"name"`
		Type CategoryType `json:"type"`
	}

	// TransactionInput is the typed request body for transaction writes.
	// Amount is a pointer so a missing field is distinguishable from zero.
	TransactionInput struct {
		Type       CategoryType `json:"type"`
		CategoryID int64        `json:"category_id"`
		Amount     *Money       `json:"amount"`
		Method     string       `json:"method,omitempty"`
		Note       string       `json:"note,omitempty"`
		TxnDate    Date         `json:"txn_date"`
	}

	// TransactionFilter bounds a transaction listing. From/To are
	// inclusive; zero Type and CategoryID mean no filter.
	TransactionFilter struct {
		From       Date
		To         Date
		Type       CategoryType
		CategoryID int64
	}
)

// Valid reports whether t is one of the two known category types.
func (t CategoryType) Valid() bool {
	return t == Spend || t == Income
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || !in.Type.Valid() {
		return InvalidInput("name & valid type required")
	}
	return nil
}

// ValidateUpdate applies the same shape checks as Validate with the
// update path's reason string.
func (in CategoryInput) ValidateUpdate() error {
	if strings.TrimSpace(in.Name) == "" || !in.Type.Valid() {
		return InvalidInput("id, name, type required")
	}
	return nil
}

// Normalized returns the input with its name trimmed.
func (in CategoryInput) Normalized() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return InvalidInput("invalid type")
	}
	if in.CategoryID <= 0 || in.Amount == nil || in.Amount.Cents < 0 {
		return InvalidInput("category_id & amount>=0 required")
	}
	if in.TxnDate.IsZero() {
		return InvalidInput("txn_date must be YYYY-MM-DD")
	}
	return nil
}
