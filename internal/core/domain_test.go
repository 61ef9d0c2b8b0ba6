package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCategoryInputValidate(t *testing.T) {
	cases := []struct {
		in CategoryInput
		ok bool
	}{
		{CategoryInput{Name: "Groceries", Type: Spend}, true},
		{CategoryInput{Name: "Salary", Type: Income}, true},
		{CategoryInput{Name: "  Rent  ", Type: Spend}, true},
		{CategoryInput{Name: "", Type: Spend}, false},
		{CategoryInput{Name: "   ", Type: Income}, false},
		{CategoryInput{Name: "Misc", Type: "OTHER"}, false},
		{CategoryInput{Name: "Misc", Type: ""}, false},
	}
	for i, tc := range cases {
		err := tc.in.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d expected error", i)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
			}
		}
	}
}

func TestCategoryInputValidateUpdate(t *testing.T) {
	if err := (CategoryInput{Name: "Groceries", Type: Spend}).ValidateUpdate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	err := (CategoryInput{Name: "", Type: Spend}).ValidateUpdate()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "id, name, type required" {
		t.Fatalf("expected update reason, got %q", err.Error())
	}
}

func TestCategoryInputNormalized(t *testing.T) {
	in := CategoryInput{Name: "  Groceries ", Type: Spend}
	if got := in.Normalized().Name; got != "Groceries" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
}

func TestTransactionInputValidate(t *testing.T) {
	amount := func(cents int64) *Money { return &Money{Cents: cents} }
	good := TransactionInput{
		Type:       Spend,
		CategoryID: 1,
		Amount:     amount(5000),
		TxnDate:    NewDate(2025, 3, 5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zeroAmount := good
	zeroAmount.Amount = amount(0)
	if err := zeroAmount.Validate(); err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}

	bads := []TransactionInput{
		{Type: "OTHER", CategoryID: 1, Amount: amount(1), TxnDate: NewDate(2025, 1, 1)},
		{Type: Spend, CategoryID: 0, Amount: amount(1), TxnDate: NewDate(2025, 1, 1)},
		{Type: Spend, CategoryID: 1, Amount: nil, TxnDate: NewDate(2025, 1, 1)},
		{Type: Spend, CategoryID: 1, Amount: amount(-1), TxnDate: NewDate(2025, 1, 1)},
		{Type: Spend, CategoryID: 1, Amount: amount(1)},
	}
	for i, in := range bads {
		err := in.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestTransactionInputDecode(t *testing.T) {
	var in TransactionInput
	body := `{"type":"SPEND","category_id":1,"amount":50,"txn_date":"2025-03-05","method":"card"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.Amount == nil || in.Amount.Cents != 5000 {
		t.Fatalf("expected 5000 cents, got %+v", in.Amount)
	}
	if in.TxnDate.String() != "2025-03-05" {
		t.Fatalf("expected 2025-03-05, got %s", in.TxnDate)
	}

	if err := json.Unmarshal([]byte(`{"type":"SPEND","txn_date":"05-03-2025"}`), &in); err == nil {
		t.Fatalf("expected error for malformed date")
	}

	// A negative amount decodes fine; it is Validate that rejects it.
	var neg TransactionInput
	body = `{"type":"SPEND","category_id":1,"amount":-3,"txn_date":"2025-03-05"}`
	if err := json.Unmarshal([]byte(body), &neg); err != nil {
		t.Fatalf("decode negative amount: %v", err)
	}
	if !errors.Is(neg.Validate(), ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative amount")
	}
}

func TestRequestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{InvalidInput("invalid type"), ErrInvalidInput},
		{NotFound("not found"), ErrNotFound},
		{Conflict("category in use"), ErrConflict},
	}
	for i, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("case %d: %v should match %v", i, tc.err, tc.kind)
		}
	}
	if InvalidInput("unknown category").Error() != "unknown category" {
		t.Fatalf("reason string should round-trip")
	}
}
