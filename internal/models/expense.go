package models

// Expense is a single spend logged by a member. Expenses are never mutated
// after creation, only deleted; deleting a savings-deposit expense cascades
// to its linked counterpart.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `bson:"_id" json:"id"`

	// GroupID is the group this expense belongs to.
	GroupID string `bson:"groupId" json:"groupId"`

	// Amount is the non-negative expense amount.
	Amount float64 `bson:"amount" json:"amount"`

	// Description is the free-text label entered by the member.
	Description string `bson:"description" json:"description"`

	// CategoryID references a budget category, or is empty for
	// uncategorized expenses.
	CategoryID string `bson:"categoryId,omitempty" json:"categoryId,omitempty"`

	// UserID is the UID of the member who paid.
	UserID string `bson:"userId" json:"userId"`

	// LinkedExpenseID points at a paired record, set when a savings deposit
	// creates a mirrored expense. Deleting either side deletes both.
	LinkedExpenseID string `bson:"linkedExpenseId,omitempty" json:"linkedExpenseId,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
}
