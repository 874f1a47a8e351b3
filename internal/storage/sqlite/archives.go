package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

// Archive writes use INSERT OR REPLACE so re-running a cycle for the same
// month overwrites the copies under the same keys instead of duplicating.

// PutArchiveSnapshot creates or overwrites an archive root record.
func (s *SQLiteStore) PutArchiveSnapshot(ctx context.Context, snap *models.ArchiveSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO archive_snapshots (group_id, archive_id, year, month, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.GroupID, snap.ArchiveID, snap.Year, snap.Month, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put archive snapshot: %w", err)
	}
	return nil
}

// PutArchivedCategory creates or overwrites an archived category copy.
func (s *SQLiteStore) PutArchivedCategory(ctx context.Context, cat *models.ArchivedCategory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO archived_categories
		 (group_id, archive_id, category_id, name, budget, lifecycle, color, icon, event_end_date, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cat.GroupID, cat.ArchiveID, cat.CategoryID, cat.Name, cat.Budget, string(cat.Lifecycle),
		nullable(cat.Color), nullable(cat.Icon), nullableInt(cat.EventEndDate), cat.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put archived category: %w", err)
	}
	return nil
}

// PutArchivedExpense creates or overwrites an archived expense copy.
func (s *SQLiteStore) PutArchivedExpense(ctx context.Context, exp *models.ArchivedExpense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO archived_expenses
		 (group_id, archive_id, expense_id, amount, description, category_id, user_id, created_at, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.GroupID, exp.ArchiveID, exp.ExpenseID, exp.Amount, exp.Description,
		nullable(exp.CategoryID), exp.UserID, exp.CreatedAt, exp.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put archived expense: %w", err)
	}
	return nil
}

// GetArchiveSnapshot retrieves an archive root record.
func (s *SQLiteStore) GetArchiveSnapshot(ctx context.Context, groupID, archiveID string) (*models.ArchiveSnapshot, error) {
	snap := &models.ArchiveSnapshot{}
	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, archive_id, year, month, created_at
		 FROM archive_snapshots WHERE group_id = ? AND archive_id = ?`,
		groupID, archiveID,
	).Scan(&snap.GroupID, &snap.ArchiveID, &snap.Year, &snap.Month, &snap.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("archive %s for group %s: %w", archiveID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive snapshot: %w", err)
	}
	return snap, nil
}

// ListArchivedCategories retrieves the archived category copies under a snapshot.
func (s *SQLiteStore) ListArchivedCategories(ctx context.Context, groupID, archiveID string) ([]models.ArchivedCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, archive_id, category_id, name, budget, lifecycle, color, icon, event_end_date, archived_at
		 FROM archived_categories WHERE group_id = ? AND archive_id = ?`,
		groupID, archiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived categories: %w", err)
	}
	defer rows.Close()

	var cats []models.ArchivedCategory
	for rows.Next() {
		var c models.ArchivedCategory
		var lifecycle string
		var color, icon sql.NullString
		var endDate sql.NullInt64
		if err := rows.Scan(&c.GroupID, &c.ArchiveID, &c.CategoryID, &c.Name, &c.Budget, &lifecycle,
			&color, &icon, &endDate, &c.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived category: %w", err)
		}
		c.Lifecycle = models.Lifecycle(lifecycle)
		if color.Valid {
			c.Color = color.String
		}
		if icon.Valid {
			c.Icon = icon.String
		}
		if endDate.Valid {
			c.EventEndDate = endDate.Int64
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archived categories: %w", err)
	}
	return cats, nil
}

// ListArchivedExpenses retrieves the archived expense copies under a snapshot.
func (s *SQLiteStore) ListArchivedExpenses(ctx context.Context, groupID, archiveID string) ([]models.ArchivedExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, archive_id, expense_id, amount, description, category_id, user_id, created_at, archived_at
		 FROM archived_expenses WHERE group_id = ? AND archive_id = ?`,
		groupID, archiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived expenses: %w", err)
	}
	defer rows.Close()

	var exps []models.ArchivedExpense
	for rows.Next() {
		var e models.ArchivedExpense
		var categoryID sql.NullString
		if err := rows.Scan(&e.GroupID, &e.ArchiveID, &e.ExpenseID, &e.Amount, &e.Description,
			&categoryID, &e.UserID, &e.CreatedAt, &e.ArchivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived expense: %w", err)
		}
		if categoryID.Valid {
			e.CategoryID = categoryID.String
		}
		exps = append(exps, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archived expenses: %w", err)
	}
	return exps, nil
}
