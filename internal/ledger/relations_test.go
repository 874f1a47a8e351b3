package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/hearthshare/ledger/internal/models"
)

func settled(from, to string, amount float64) models.SettledDebt {
	return models.SettledDebt{GroupID: "g1", FromUser: from, ToUser: to, Amount: amount}
}

func TestRelationsFor(t *testing.T) {
	// The running example: a spent 30, b spent 0, c spent 90.
	// Balances: a = -10, b = -40, c = +50.
	ms := members("a", "b", "c")
	balances := map[string]float64{"a": -10, "b": -40, "c": 50}

	tests := []struct {
		name         string
		viewpoint    string
		debts        []models.SettledDebt
		validateFunc func(t *testing.T, rels []Relation)
	}{
		{
			name:      "b owes c its full deficit",
			viewpoint: "b",
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 1 {
					t.Fatalf("relations = %d, want 1", len(rels))
				}
				r := rels[0]
				if r.Type != RelationOwe || r.Counterpart != "c" {
					t.Errorf("relation = %+v, want owe c", r)
				}
				if math.Abs(r.Amount-40) > 0.01 {
					t.Errorf("amount = %v, want 40", r.Amount)
				}
			},
		},
		{
			name:      "a owes c its smaller deficit",
			viewpoint: "a",
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 1 {
					t.Fatalf("relations = %d, want 1", len(rels))
				}
				if rels[0].Type != RelationOwe || rels[0].Counterpart != "c" {
					t.Errorf("relation = %+v, want owe c", rels[0])
				}
				if math.Abs(rels[0].Amount-10) > 0.01 {
					t.Errorf("amount = %v, want 10", rels[0].Amount)
				}
			},
		},
		{
			name:      "c gets from both debtors in member order",
			viewpoint: "c",
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 2 {
					t.Fatalf("relations = %d, want 2", len(rels))
				}
				if rels[0].Counterpart != "a" || rels[1].Counterpart != "b" {
					t.Errorf("counterparts = %s, %s, want a, b", rels[0].Counterpart, rels[1].Counterpart)
				}
				for _, r := range rels {
					if r.Type != RelationGet {
						t.Errorf("relation type = %s, want get", r.Type)
					}
				}
				if math.Abs(rels[0].Amount-10) > 0.01 {
					t.Errorf("get from a = %v, want 10", rels[0].Amount)
				}
				if math.Abs(rels[1].Amount-40) > 0.01 {
					t.Errorf("get from b = %v, want 40", rels[1].Amount)
				}
			},
		},
		{
			name:      "settling b's debt zeroes b and leaves a owing",
			viewpoint: "b",
			debts:     []models.SettledDebt{settled("b", "c", 40)},
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 0 {
					t.Errorf("relations = %v, want none after full settlement", rels)
				}
			},
		},
		{
			name:      "after b settles, c is still owed by a",
			viewpoint: "c",
			debts:     []models.SettledDebt{settled("b", "c", 40)},
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 1 {
					t.Fatalf("relations = %d, want 1", len(rels))
				}
				if rels[0].Counterpart != "a" || math.Abs(rels[0].Amount-10) > 0.01 {
					t.Errorf("relation = %+v, want get 10 from a", rels[0])
				}
			},
		},
		{
			name:      "partial settlement reduces the owed amount exactly",
			viewpoint: "b",
			debts:     []models.SettledDebt{settled("b", "c", 15)},
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 1 {
					t.Fatalf("relations = %d, want 1", len(rels))
				}
				if math.Abs(rels[0].Amount-25) > 0.01 {
					t.Errorf("amount = %v, want 25", rels[0].Amount)
				}
			},
		},
		{
			name:      "offsets commute regardless of order",
			viewpoint: "b",
			debts: []models.SettledDebt{
				settled("b", "c", 25),
				settled("b", "c", 15),
			},
			validateFunc: func(t *testing.T, rels []Relation) {
				if len(rels) != 0 {
					t.Errorf("relations = %v, want none", rels)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rels := RelationsFor(tt.viewpoint, ms, balances, tt.debts)
			tt.validateFunc(t, rels)
		})
	}
}

func TestGreedyMatcherClampsAtCounterpartSurplus(t *testing.T) {
	// d's deficit (60) exceeds c's surplus (50): the owe relation is clamped.
	ms := members("c", "d")
	rels := GreedyMatcher{}.Match("d", ms, map[string]float64{"c": 50, "d": -60})
	if len(rels) != 1 {
		t.Fatalf("relations = %d, want 1", len(rels))
	}
	if math.Abs(rels[0].Amount-50) > 0.01 {
		t.Errorf("amount = %v, want clamped to 50", rels[0].Amount)
	}
}

func TestGreedyMatcherPairwiseNotMinimal(t *testing.T) {
	// Both debtors see the full pairwise min against the lone creditor; the
	// matcher does not decrement the creditor's surplus between relations.
	// That over-coverage is the documented greedy behavior.
	ms := members("a", "b", "c")
	balances := map[string]float64{"a": -30, "b": -20, "c": 50}

	relsA := GreedyMatcher{}.Match("a", ms, balances)
	relsB := GreedyMatcher{}.Match("b", ms, balances)
	if len(relsA) != 1 || len(relsB) != 1 {
		t.Fatalf("relations = %d, %d, want 1 each", len(relsA), len(relsB))
	}
	if math.Abs(relsA[0].Amount-30) > 0.01 {
		t.Errorf("a owes %v, want 30", relsA[0].Amount)
	}
	if math.Abs(relsB[0].Amount-20) > 0.01 {
		t.Errorf("b owes %v, want 20", relsB[0].Amount)
	}
}

func TestApplySettlementsDoesNotMutateInput(t *testing.T) {
	balances := map[string]float64{"a": -10, "b": 10}
	ApplySettlements(balances, []models.SettledDebt{settled("a", "b", 10)})
	if balances["a"] != -10 || balances["b"] != 10 {
		t.Errorf("input balances mutated: %v", balances)
	}
}

func TestValidateSettlement(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		amount  float64
		wantErr error
	}{
		{"valid", "a", "b", 10, nil},
		{"zero amount", "a", "b", 0, ErrInvalidAmount},
		{"negative amount", "a", "b", -5, ErrInvalidAmount},
		{"missing member", "", "b", 10, ErrInvalidInput},
		{"self settlement", "a", "a", 10, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettlement(tt.from, tt.to, tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSettlement() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSettlement() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
