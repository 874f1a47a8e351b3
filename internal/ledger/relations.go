package ledger

import (
	"fmt"

	"github.com/hearthshare/ledger/internal/models"
)

// RelationType says which direction a relation points from the viewpoint
// member's perspective.
type RelationType string

const (
	// RelationOwe means the viewpoint member owes the counterpart.
	RelationOwe RelationType = "owe"
	// RelationGet means the counterpart owes the viewpoint member.
	RelationGet RelationType = "get"
)

// Relation is one directional debt between the viewpoint member and a
// counterpart.
type Relation struct {
	Type        RelationType `json:"type"`
	Counterpart string       `json:"counterpart"`
	Amount      float64      `json:"amount"`
}

// Matcher derives the viewpoint member's relations from settled-offset
// balances. It exists so the greedy matching can later be swapped for a
// minimum-transfer solver without touching callers.
type Matcher interface {
	Match(viewpoint string, members []models.Member, balances map[string]float64) []Relation
}

// GreedyMatcher pairs the viewpoint member against every counterpart with an
// opposite-signed balance, clamping each relation at min(|viewpoint|,
// |counterpart|). Counterparts are visited in member-list order and each
// pairing is computed independently, so with three or more nonzero balances
// this can emit more relations than a minimum-transfer matching would. That
// is the intended behavior, kept for compatibility with the mobile app.
type GreedyMatcher struct{}

// Match implements Matcher.
func (GreedyMatcher) Match(viewpoint string, members []models.Member, balances map[string]float64) []Relation {
	b := balances[viewpoint]
	if b > -epsilon && b < epsilon {
		return nil
	}

	var relations []Relation
	for _, m := range members {
		if m.UID == viewpoint {
			continue
		}
		other := balances[m.UID]
		switch {
		case b < 0 && other > epsilon:
			relations = append(relations, Relation{
				Type:        RelationOwe,
				Counterpart: m.UID,
				Amount:      min(-b, other),
			})
		case b > 0 && other < -epsilon:
			relations = append(relations, Relation{
				Type:        RelationGet,
				Counterpart: m.UID,
				Amount:      min(b, -other),
			})
		}
	}
	return relations
}

// ApplySettlements returns a copy of balances with every settled debt applied
// as an offset: the payer's balance rises by the amount, the receiver's falls.
// Offsets commute, so application order does not matter.
func ApplySettlements(balances map[string]float64, debts []models.SettledDebt) map[string]float64 {
	offset := make(map[string]float64, len(balances))
	for uid, b := range balances {
		offset[uid] = b
	}
	for _, d := range debts {
		offset[d.FromUser] += d.Amount
		offset[d.ToUser] -= d.Amount
	}
	return offset
}

// RelationsFor computes the viewpoint member's owe/get relations using the
// default greedy matcher, after applying settled-debt offsets to balances.
func RelationsFor(viewpoint string, members []models.Member, balances map[string]float64, debts []models.SettledDebt) []Relation {
	return GreedyMatcher{}.Match(viewpoint, members, ApplySettlements(balances, debts))
}

// ValidateSettlement checks a closeDebt request before it is appended to the
// settled-debt ledger.
func ValidateSettlement(fromUser, toUser string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: settlement amount must be positive, got %.2f", ErrInvalidAmount, amount)
	}
	if fromUser == "" || toUser == "" {
		return fmt.Errorf("%w: both members required", ErrInvalidInput)
	}
	if fromUser == toUser {
		return fmt.Errorf("%w: cannot settle a debt with yourself", ErrInvalidInput)
	}
	return nil
}
