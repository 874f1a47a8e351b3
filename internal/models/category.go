package models

// Lifecycle discriminates the two category kinds. The source app carried this
// as a pair of loosely used optional flags (isRegular / isTemporary); here it
// is a single required discriminator.
type Lifecycle string

const (
	// LifecycleRegular categories persist across archive cycles; each cycle
	// resets their budget to zero.
	LifecycleRegular Lifecycle = "regular"

	// LifecycleTemporary categories are deleted entirely at cycle end, or
	// earlier when their EventEndDate passes.
	LifecycleTemporary Lifecycle = "temporary"
)

// Category is a budget envelope within a group.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string `bson:"_id" json:"id"`

	// GroupID is the group this category belongs to.
	GroupID string `bson:"groupId" json:"groupId"`

	// Name is the display name (e.g., "Groceries", "Ski Trip").
	Name string `bson:"name" json:"name"`

	// Budget is the non-negative amount allotted for the current cycle.
	Budget float64 `bson:"budget" json:"budget"`

	// Lifecycle is either LifecycleRegular or LifecycleTemporary.
	Lifecycle Lifecycle `bson:"lifecycle" json:"lifecycle"`

	// Color and Icon are presentation hints chosen by the user.
	Color string `bson:"color,omitempty" json:"color,omitempty"`
	Icon  string `bson:"icon,omitempty" json:"icon,omitempty"`

	// EventEndDate is the Unix timestamp when a temporary category expires,
	// or zero when it only ends with the cycle.
	EventEndDate int64 `bson:"eventEndDate,omitempty" json:"eventEndDate,omitempty"`

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
}

// Temporary reports whether the category is purged at cycle end.
func (c *Category) Temporary() bool {
	return c.Lifecycle == LifecycleTemporary
}

// Expired reports whether a temporary category's event window has closed as
// of the given Unix timestamp. Regular categories never expire.
func (c *Category) Expired(now int64) bool {
	return c.Temporary() && c.EventEndDate > 0 && c.EventEndDate < now
}
