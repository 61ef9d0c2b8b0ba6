package core

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
)

func txn(typ CategoryType, category string, cents int64) Transaction {
	return Transaction{
		Type:         typ,
		CategoryName: category,
		Amount:       Money{Cents: cents},
		TxnDate:      NewDate(2025, 3, 5),
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(2025, 3, nil)
	if sum.TotalSpend.Cents != 0 || sum.TotalIncome.Cents != 0 || sum.Net.Cents != 0 {
		t.Fatalf("expected all-zero summary, got %+v", sum)
	}
	if len(sum.SpendByCategory) != 0 || len(sum.IncomeByCategory) != 0 {
		t.Fatalf("expected empty category rows")
	}
}

func TestSummarizeTotals(t *testing.T) {
	txns := []Transaction{
		txn(Spend, "Groceries", 5000),
		txn(Spend, "Groceries", 2550),
		txn(Spend, "Rent", 90000),
		txn(Income, "Salary", 250000),
		txn(Income, "Interest", 1025),
	}
	sum := Summarize(2025, 3, txns)
	if sum.TotalSpend.Cents != 97550 {
		t.Fatalf("total_spend: expected 97550, got %d", sum.TotalSpend.Cents)
	}
	if sum.TotalIncome.Cents != 251025 {
		t.Fatalf("total_income: expected 251025, got %d", sum.TotalIncome.Cents)
	}
	if sum.Net.Cents != 153475 {
		t.Fatalf("net: expected 153475, got %d", sum.Net.Cents)
	}

	wantSpend := []CategoryTotal{
		{Category: "Rent", Total: Money{Cents: 90000}},
		{Category: "Groceries", Total: Money{Cents: 7550}},
	}
	if !reflect.DeepEqual(sum.SpendByCategory, wantSpend) {
		t.Fatalf("spend rows: expected %+v, got %+v", wantSpend, sum.SpendByCategory)
	}
}

func TestSummarizeTiesKeepFirstSeenOrder(t *testing.T) {
	txns := []Transaction{
		txn(Spend, "Bar", 1000),
		txn(Spend, "Cafe", 1000),
	}
	sum := Summarize(2025, 3, txns)
	if sum.SpendByCategory[0].Category != "Bar" || sum.SpendByCategory[1].Category != "Cafe" {
		t.Fatalf("expected first-seen tie order, got %+v", sum.SpendByCategory)
	}
}

func TestSummarizeCommutative(t *testing.T) {
	txns := []Transaction{
		txn(Spend, "Groceries", 5025),
		txn(Spend, "Rent", 90000),
		txn(Spend, "Groceries", 1975),
		txn(Income, "Salary", 250000),
		txn(Income, "Salary", 12345),
		txn(Income, "Gifts", 5000),
	}
	base := Summarize(2025, 3, txns)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]Transaction, len(txns))
		copy(shuffled, txns)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		sum := Summarize(2025, 3, shuffled)
		if sum.TotalSpend != base.TotalSpend || sum.TotalIncome != base.TotalIncome || sum.Net != base.Net {
			t.Fatalf("trial %d: totals changed under permutation", trial)
		}
		if !sameTotals(sum.SpendByCategory, base.SpendByCategory) ||
			!sameTotals(sum.IncomeByCategory, base.IncomeByCategory) {
			t.Fatalf("trial %d: per-category sums changed under permutation", trial)
		}
	}
}

func sameTotals(a, b []CategoryTotal) bool {
	if len(a) != len(b) {
		return false
	}
	am := make(map[string]int64, len(a))
	for _, r := range a {
		am[r.Category] = r.Total.Cents
	}
	for _, r := range b {
		if am[r.Category] != r.Total.Cents {
			return false
		}
	}
	return true
}

func TestSummaryJSONRoundTrip(t *testing.T) {
	// A spend-only month has a negative net; the codec must carry it
	// back in unchanged.
	sum := Summarize(2025, 3, []Transaction{txn(Spend, "Groceries", 5000)})

	data, err := json.Marshal(sum)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got MonthSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if got.Net.Cents != -5000 || got.TotalSpend.Cents != 5000 || got.TotalIncome.Cents != 0 {
		t.Fatalf("round trip changed the numbers: %+v", got)
	}
}

func TestSummarizeSingleSpend(t *testing.T) {
	// One SPEND of 50 in March 2025: total_spend=50, total_income=0, net=-50.
	txns := []Transaction{txn(Spend, "Groceries", 5000)}
	sum := Summarize(2025, 3, txns)
	if sum.TotalSpend.String() != "50" || sum.TotalIncome.String() != "0" || sum.Net.String() != "-50" {
		t.Fatalf("unexpected summary: spend=%s income=%s net=%s",
			sum.TotalSpend, sum.TotalIncome, sum.Net)
	}
}
