package models

// ArchiveSnapshot is the root record of one group's monthly archive. Copies
// of that period's categories and expenses hang off the same archive id.
// Archive writes are keyed by (group, archive id, original id), so re-running
// a cycle overwrites rather than duplicates.
type ArchiveSnapshot struct {
	// ArchiveID is the canonical "YYYY-MM" identifier for the period.
	ArchiveID string `bson:"archiveId" json:"archiveId"`

	// GroupID is the group the snapshot belongs to.
	GroupID string `bson:"groupId" json:"groupId"`

	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`

	// CreatedAt is the Unix timestamp the snapshot root was written.
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
}

// ArchivedCategory is an immutable copy of a category at cycle boundary.
type ArchivedCategory struct {
	ArchiveID  string `bson:"archiveId" json:"archiveId"`
	GroupID    string `bson:"groupId" json:"groupId"`
	CategoryID string `bson:"categoryId" json:"categoryId"`

	Name         string    `bson:"name" json:"name"`
	Budget       float64   `bson:"budget" json:"budget"`
	Lifecycle    Lifecycle `bson:"lifecycle" json:"lifecycle"`
	Color        string    `bson:"color,omitempty" json:"color,omitempty"`
	Icon         string    `bson:"icon,omitempty" json:"icon,omitempty"`
	EventEndDate int64     `bson:"eventEndDate,omitempty" json:"eventEndDate,omitempty"`

	// ArchivedAt is the Unix timestamp the copy was taken.
	ArchivedAt int64 `bson:"archivedAt" json:"archivedAt"`
}

// ArchivedExpense is an immutable copy of an expense at cycle boundary.
type ArchivedExpense struct {
	ArchiveID string `bson:"archiveId" json:"archiveId"`
	GroupID   string `bson:"groupId" json:"groupId"`
	ExpenseID string `bson:"expenseId" json:"expenseId"`

	Amount      float64 `bson:"amount" json:"amount"`
	Description string  `bson:"description" json:"description"`
	CategoryID  string  `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	UserID      string  `bson:"userId" json:"userId"`
	CreatedAt   int64   `bson:"createdAt" json:"createdAt"`

	// ArchivedAt is the Unix timestamp the copy was taken.
	ArchivedAt int64 `bson:"archivedAt" json:"archivedAt"`
}

// ArchiveCategory copies a live category into a snapshot.
func ArchiveCategory(c *Category, archiveID string, archivedAt int64) *ArchivedCategory {
	return &ArchivedCategory{
		ArchiveID:    archiveID,
		GroupID:      c.GroupID,
		CategoryID:   c.ID,
		Name:         c.Name,
		Budget:       c.Budget,
		Lifecycle:    c.Lifecycle,
		Color:        c.Color,
		Icon:         c.Icon,
		EventEndDate: c.EventEndDate,
		ArchivedAt:   archivedAt,
	}
}

// ArchiveExpense copies a live expense into a snapshot.
func ArchiveExpense(e *Expense, archiveID string, archivedAt int64) *ArchivedExpense {
	return &ArchivedExpense{
		ArchiveID:   archiveID,
		GroupID:     e.GroupID,
		ExpenseID:   e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		UserID:      e.UserID,
		CreatedAt:   e.CreatedAt,
		ArchivedAt:  archivedAt,
	}
}
