package models

// SettledDebt records a transfer between two members that permanently offsets
// their balances. The ledger is append-only: entries are never mutated or
// deleted in normal flow.
type SettledDebt struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `bson:"_id" json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `bson:"groupId" json:"groupId"`

	// FromUser is the UID of the member who paid (debtor settling up).
	FromUser string `bson:"fromUser" json:"fromUser"`

	// ToUser is the UID of the member who received (creditor being paid).
	ToUser string `bson:"toUser" json:"toUser"`

	// Amount is the positive transfer amount.
	Amount float64 `bson:"amount" json:"amount"`

	// SettledAt is the Unix timestamp when the transfer was recorded.
	SettledAt int64 `bson:"settledAt" json:"settledAt"`
}
