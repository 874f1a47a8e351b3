package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/ledger/internal/models"
)

// AppendSettledDebt appends an entry to the settled-debt ledger.
func (s *SQLiteStore) AppendSettledDebt(ctx context.Context, debt *models.SettledDebt) error {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.SettledAt == 0 {
		debt.SettledAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settled_debts (id, group_id, from_user, to_user, amount, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		debt.ID, debt.GroupID, debt.FromUser, debt.ToUser, debt.Amount, debt.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settled debt: %w", err)
	}
	return nil
}

// ListSettledDebts retrieves a group's settled-debt ledger.
func (s *SQLiteStore) ListSettledDebts(ctx context.Context, groupID string) ([]models.SettledDebt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_user, to_user, amount, settled_at
		 FROM settled_debts WHERE group_id = ? ORDER BY settled_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled debts: %w", err)
	}
	defer rows.Close()

	var debts []models.SettledDebt
	for rows.Next() {
		var d models.SettledDebt
		if err := rows.Scan(&d.ID, &d.GroupID, &d.FromUser, &d.ToUser, &d.Amount, &d.SettledAt); err != nil {
			return nil, fmt.Errorf("failed to scan settled debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settled debts: %w", err)
	}
	return debts, nil
}
