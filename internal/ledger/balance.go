// Package ledger holds the reconciliation math for a group: net balances,
// who-owes-whom relations derived from balances and settled debts, and the
// pay-queue selection. Everything here is pure — callers pass in a snapshot
// of the group's records and nothing is mutated.
package ledger

import (
	"fmt"
	"math"

	"github.com/hearthshare/ledger/internal/models"
)

// epsilon absorbs floating point noise when comparing balances. Amounts below
// this are treated as settled.
const epsilon = 0.01

// CalculateBalances computes each member's net balance over the given
// expenses: a member's actual spend minus their fair share (total divided
// evenly by member count). Negative means the member owes the group, positive
// means the group owes them.
//
// The returned map is keyed by member UID and always sums to zero within
// floating point tolerance. Expenses with NaN amounts count as zero; a
// negative amount or an empty member list is an error.
func CalculateBalances(expenses []models.Expense, members []models.Member) (map[string]float64, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: at least one member required", ErrInvalidInput)
	}

	spent := make(map[string]float64, len(members))
	for _, m := range members {
		spent[m.UID] = 0
	}

	var total float64
	for _, e := range expenses {
		amount := e.Amount
		if math.IsNaN(amount) {
			amount = 0
		}
		if amount < 0 {
			return nil, fmt.Errorf("%w: negative expense amount %.2f (expense %s)", ErrInvalidInput, amount, e.ID)
		}
		total += amount
		if _, ok := spent[e.UserID]; ok {
			spent[e.UserID] += amount
		}
	}

	fairShare := total / float64(len(members))

	balances := make(map[string]float64, len(members))
	for uid, s := range spent {
		balances[uid] = s - fairShare
	}
	return balances, nil
}

// SpentTotals computes each member's raw spend over the given expenses,
// without the fair-share offset. Members with no expenses map to zero.
func SpentTotals(expenses []models.Expense, members []models.Member) (map[string]float64, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: at least one member required", ErrInvalidInput)
	}

	spent := make(map[string]float64, len(members))
	for _, m := range members {
		spent[m.UID] = 0
	}
	for _, e := range expenses {
		amount := e.Amount
		if math.IsNaN(amount) {
			amount = 0
		}
		if amount < 0 {
			return nil, fmt.Errorf("%w: negative expense amount %.2f (expense %s)", ErrInvalidInput, amount, e.ID)
		}
		if _, ok := spent[e.UserID]; ok {
			spent[e.UserID] += amount
		}
	}
	return spent, nil
}
