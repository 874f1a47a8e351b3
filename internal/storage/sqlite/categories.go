package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

const categoryColumns = "id, group_id, name, budget, lifecycle, color, icon, event_end_date, created_at"

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}
	if category.Lifecycle == "" {
		category.Lifecycle = models.LifecycleRegular
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories ("+categoryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		category.ID, category.GroupID, category.Name, category.Budget, string(category.Lifecycle),
		nullable(category.Color), nullable(category.Icon), nullableInt(category.EventEndDate), category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", categoryID,
	)
	category, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves all of a group's live categories.
func (s *SQLiteStore) ListCategories(ctx context.Context, groupID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE group_id = ? ORDER BY created_at", groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategoryBudget sets a category's budget, leaving it otherwise intact.
func (s *SQLiteStore) UpdateCategoryBudget(ctx context.Context, categoryID string, budget float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET budget = ? WHERE id = ?", budget, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCategory removes a category by ID.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	return nil
}

func scanCategory(scan func(dest ...interface{}) error) (*models.Category, error) {
	category := &models.Category{}
	var lifecycle string
	var color, icon sql.NullString
	var endDate sql.NullInt64

	err := scan(&category.ID, &category.GroupID, &category.Name, &category.Budget, &lifecycle,
		&color, &icon, &endDate, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	category.Lifecycle = models.Lifecycle(lifecycle)
	if color.Valid {
		category.Color = color.String
	}
	if icon.Valid {
		category.Icon = icon.String
	}
	if endDate.Valid {
		category.EventEndDate = endDate.Int64
	}
	return category, nil
}

// nullableInt maps zero timestamps to SQL NULL.
func nullableInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
