// Package models defines the core domain records for the household ledger:
// groups, members, expenses, budget categories, settled debts and monthly
// archive snapshots.
//
// Records are stored in a document store (or SQLite for local development);
// the bson tags drive the MongoDB backend, the json tags the admin API.
// Amounts are float64 everywhere — the reconciliation math is specified with
// an epsilon tolerance, not exact decimal arithmetic.
package models

// Group owns members, categories, expenses, settled debts and archive
// snapshots. Deleting a group cascades to all of its children.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `bson:"_id" json:"id"`

	// Name is the display name of the group (e.g., "Flat 4B", "Summer House").
	Name string `bson:"name" json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
}

// Member is one person in a group. Members are immutable once added, except
// for removal.
type Member struct {
	// UID identifies the member across the whole system (auth provider id).
	UID string `bson:"uid" json:"uid"`

	// Name is the display name of the member.
	Name string `bson:"name" json:"name"`

	// GroupID is the group this member belongs to. A member belongs to
	// exactly one group's member list.
	GroupID string `bson:"groupId" json:"groupId"`
}
