// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/hearthshare/ledger/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable is returned when the backing store cannot be reached.
	// Callers decide whether to retry; the store does not retry internally.
	ErrUnavailable = errors.New("store unavailable")
)

// Store defines the interface for the group ledger's persistence operations.
// This abstraction keeps the reconciliation and archive logic testable
// without a live document store, and allows swapping backends (SQLite for
// local development, MongoDB in production) without changing callers.
type Store interface {
	// CreateGroup persists a new group. The group's ID and CreatedAt fields
	// are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group and cascades to its members, categories,
	// expenses, settled debts and archive snapshots.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember adds a member to a group's member list.
	AddMember(ctx context.Context, member *models.Member) error

	// RemoveMember removes a member from a group's member list.
	RemoveMember(ctx context.Context, groupID, uid string) error

	// ListMembers retrieves a group's members in insertion order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CreateExpense persists a new expense. ID and CreatedAt are populated
	// by the store if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses retrieves all of a group's live expenses.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// ListExpensesByCategory retrieves a group's live expenses filtered by
	// category.
	ListExpensesByCategory(ctx context.Context, groupID, categoryID string) ([]models.Expense, error)

	// CreateCategory persists a new category. ID and CreatedAt are populated
	// by the store if unset.
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategory retrieves a category by ID.
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)

	// ListCategories retrieves all of a group's live categories.
	ListCategories(ctx context.Context, groupID string) ([]models.Category, error)

	// UpdateCategoryBudget sets a category's budget, leaving it otherwise
	// intact.
	UpdateCategoryBudget(ctx context.Context, categoryID string, budget float64) error

	// DeleteCategory removes a category by ID.
	DeleteCategory(ctx context.Context, categoryID string) error

	// AppendSettledDebt appends an entry to the settled-debt ledger. ID and
	// SettledAt are populated by the store if unset. Entries are never
	// updated or deleted.
	AppendSettledDebt(ctx context.Context, debt *models.SettledDebt) error

	// ListSettledDebts retrieves a group's settled-debt ledger.
	ListSettledDebts(ctx context.Context, groupID string) ([]models.SettledDebt, error)

	// PutArchiveSnapshot creates or overwrites an archive root record, keyed
	// by (group, archive id).
	PutArchiveSnapshot(ctx context.Context, snap *models.ArchiveSnapshot) error

	// PutArchivedCategory creates or overwrites an archived category copy,
	// keyed by (group, archive id, category id).
	PutArchivedCategory(ctx context.Context, cat *models.ArchivedCategory) error

	// PutArchivedExpense creates or overwrites an archived expense copy,
	// keyed by (group, archive id, expense id).
	PutArchivedExpense(ctx context.Context, exp *models.ArchivedExpense) error

	// GetArchiveSnapshot retrieves an archive root record.
	GetArchiveSnapshot(ctx context.Context, groupID, archiveID string) (*models.ArchiveSnapshot, error)

	// ListArchivedCategories retrieves the archived category copies under a
	// snapshot.
	ListArchivedCategories(ctx context.Context, groupID, archiveID string) ([]models.ArchivedCategory, error)

	// ListArchivedExpenses retrieves the archived expense copies under a
	// snapshot.
	ListArchivedExpenses(ctx context.Context, groupID, archiveID string) ([]models.ArchivedExpense, error)

	// Close releases any resources held by the store.
	Close() error
}
