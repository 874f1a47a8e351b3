package ledger

import (
	"fmt"

	"github.com/hearthshare/ledger/internal/models"
)

// NextPayer returns the member who has spent the least so far and is
// therefore next in line to pay. Ties go to the first member in input order,
// deterministically across calls.
//
// A meaningful answer needs at least two members and one expense; anything
// less is ErrInsufficientData.
func NextPayer(members []models.Member, expenses []models.Expense) (*models.Member, error) {
	if len(members) < 2 {
		return nil, fmt.Errorf("%w: at least two members required, got %d", ErrInsufficientData, len(members))
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("%w: no expenses recorded yet", ErrInsufficientData)
	}

	spent, err := SpentTotals(expenses, members)
	if err != nil {
		return nil, err
	}

	next := &members[0]
	for i := 1; i < len(members); i++ {
		if spent[members[i].UID] < spent[next.UID] {
			next = &members[i]
		}
	}
	return next, nil
}
