package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func vector(pairs ...string) []Balance {
	var out []Balance
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Balance{UserID: pairs[i], Balance: d(pairs[i+1])})
	}
	return out
}

// applyPayments returns the balances after executing every payment.
func applyPayments(balances []Balance, payments []SuggestedPayment) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		result[b.UserID] = b.Balance
	}
	for _, p := range payments {
		result[p.FromUserID] = result[p.FromUserID].Add(p.Amount)
		result[p.ToUserID] = result[p.ToUserID].Sub(p.Amount)
	}
	return result
}

func TestSuggestPayments(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []SuggestedPayment
	}{
		{
			name:     "dinner scenario keeps input order for equal debts",
			balances: vector("Alice", "20", "Bob", "-10", "Carol", "-10"),
			want: []SuggestedPayment{
				{FromUserID: "Bob", ToUserID: "Alice", Amount: d("10")},
				{FromUserID: "Carol", ToUserID: "Alice", Amount: d("10")},
			},
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: vector("A", "-5", "B", "-25", "C", "10", "D", "20"),
			want: []SuggestedPayment{
				{FromUserID: "B", ToUserID: "D", Amount: d("20")},
				{FromUserID: "B", ToUserID: "C", Amount: d("5")},
				{FromUserID: "A", ToUserID: "C", Amount: d("5")},
			},
		},
		{
			name:     "negligible balances are skipped",
			balances: vector("A", "0.004", "B", "-0.009", "C", "0"),
			want:     nil,
		},
		{
			name:     "all settled",
			balances: vector("A", "0", "B", "0"),
			want:     nil,
		},
		{
			name:     "amount rounded half away from zero",
			balances: vector("A", "-3.335", "B", "3.335"),
			want: []SuggestedPayment{
				{FromUserID: "A", ToUserID: "B", Amount: d("3.34")},
			},
		},
		{
			name:     "one cent step is not emitted",
			balances: vector("A", "-0.01", "B", "0.01"),
			want:     nil,
		},
		{
			name:     "unbalanced residue is dropped",
			balances: vector("A", "-10", "B", "4"),
			want: []SuggestedPayment{
				{FromUserID: "A", ToUserID: "B", Amount: d("4")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestPayments(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d payments %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].FromUserID != tt.want[i].FromUserID || got[i].ToUserID != tt.want[i].ToUserID {
					t.Errorf("payment %d: got %s->%s, want %s->%s", i,
						got[i].FromUserID, got[i].ToUserID, tt.want[i].FromUserID, tt.want[i].ToUserID)
				}
				if !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("payment %d amount: got %s, want %s", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}

// randomZeroSumVector builds n cent-precision balances summing to zero.
func randomZeroSumVector(r *rand.Rand, n int) []Balance {
	balances := make([]Balance, n)
	var total int64
	for i := 0; i < n-1; i++ {
		cents := r.Int63n(20000) - 10000
		total += cents
		balances[i] = Balance{UserID: fmt.Sprintf("u%d", i), Balance: FromCents(cents)}
	}
	balances[n-1] = Balance{UserID: fmt.Sprintf("u%d", n-1), Balance: FromCents(-total)}
	return balances
}

func TestSuggestPayments_ZeroesEveryBalance(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		balances := randomZeroSumVector(r, 2+r.Intn(12))
		payments := SuggestPayments(balances)

		for userID, residual := range applyPayments(balances, payments) {
			if residual.Abs().GreaterThan(Cent) {
				t.Fatalf("round %d: %s left with %s after %v", round, userID, residual, payments)
			}
		}
		if len(payments) > len(balances)-1 {
			t.Errorf("round %d: %d payments for %d members", round, len(payments), len(balances))
		}
		for _, p := range payments {
			if !p.Amount.GreaterThan(Cent) {
				t.Errorf("round %d: emitted payment of %s", round, p.Amount)
			}
		}
	}
}

func TestSuggestPayments_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	balances := randomZeroSumVector(r, 10)
	balances = append(balances, Balance{UserID: "tieA", Balance: d("-5")}, Balance{UserID: "tieB", Balance: d("-5")})
	balances = append(balances, Balance{UserID: "tieC", Balance: d("10")})

	first := SuggestPayments(balances)
	for i := 0; i < 20; i++ {
		again := SuggestPayments(balances)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d payments, want %d", i, len(again), len(first))
		}
		for k := range first {
			if again[k].FromUserID != first[k].FromUserID ||
				again[k].ToUserID != first[k].ToUserID ||
				!again[k].Amount.Equal(first[k].Amount) {
				t.Fatalf("run %d: payment %d differs: %v vs %v", i, k, again[k], first[k])
			}
		}
	}
}

func TestSuggestPayments_DoesNotMutateInput(t *testing.T) {
	balances := vector("Alice", "20", "Bob", "-10", "Carol", "-10")
	SuggestPayments(balances)

	if !balances[0].Balance.Equal(d("20")) || !balances[1].Balance.Equal(d("-10")) {
		t.Errorf("input mutated: %v", balances)
	}
}

func TestGreedyNormalizer(t *testing.T) {
	var n Normalizer = GreedyNormalizer{}
	got := n.SuggestPayments(vector("A", "-7.5", "B", "7.5"))
	if len(got) != 1 || !got[0].Amount.Equal(d("7.5")) {
		t.Errorf("got %v, want one payment of 7.50", got)
	}
}
