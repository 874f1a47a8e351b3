// Package service wires the pure reconciliation math to the persistence
// layer and exposes the operations the app surfaces call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hearthshare/ledger/internal/ledger"
	"github.com/hearthshare/ledger/internal/metrics"
	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

// LedgerService implements the reconciliation operations over a Store.
// The math itself lives in the ledger package; this layer loads the group
// snapshot, applies validation that needs persisted state, and logs.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// GroupBalances computes every member's net balance for a group.
func (s *LedgerService) GroupBalances(ctx context.Context, groupID string) (map[string]float64, error) {
	members, expenses, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.CalculateBalances(expenses, members)
	if err != nil {
		slog.Error("GroupBalances failed", "group_id", groupID, "error", err)
		return nil, err
	}
	return balances, nil
}

// RelationsFor computes one member's owe/get relations, with the group's
// settled-debt ledger applied as offsets.
func (s *LedgerService) RelationsFor(ctx context.Context, groupID, memberUID string) ([]ledger.Relation, error) {
	members, expenses, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) < 2 {
		return nil, fmt.Errorf("%w: relations need at least two members", ledger.ErrInsufficientData)
	}
	if !isMember(memberUID, members) {
		return nil, fmt.Errorf("member %s in group %s: %w", memberUID, groupID, storage.ErrNotFound)
	}

	balances, err := ledger.CalculateBalances(expenses, members)
	if err != nil {
		slog.Error("RelationsFor failed", "group_id", groupID, "member", memberUID, "error", err)
		return nil, err
	}

	debts, err := s.store.ListSettledDebts(ctx, groupID)
	if err != nil {
		slog.Error("RelationsFor: failed to list settled debts", "group_id", groupID, "error", err)
		return nil, err
	}

	return ledger.RelationsFor(memberUID, members, balances, debts), nil
}

// CloseDebt appends a settled-debt entry offsetting fromUser's debt to
// toUser. The entry is permanent; there is no un-close.
func (s *LedgerService) CloseDebt(ctx context.Context, groupID, fromUser, toUser string, amount float64) (*models.SettledDebt, error) {
	if err := ledger.ValidateSettlement(fromUser, toUser, amount); err != nil {
		slog.Error("CloseDebt validation failed",
			"group_id", groupID, "from", fromUser, "to", toUser, "amount", amount, "error", err)
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !isMember(fromUser, members) || !isMember(toUser, members) {
		return nil, fmt.Errorf("%w: both settlement parties must be group members", ledger.ErrInvalidInput)
	}

	debt := &models.SettledDebt{
		GroupID:  groupID,
		FromUser: fromUser,
		ToUser:   toUser,
		Amount:   amount,
	}
	if err := s.store.AppendSettledDebt(ctx, debt); err != nil {
		slog.Error("CloseDebt failed", "group_id", groupID, "error", err)
		return nil, err
	}

	metrics.SettledDebts.Inc()
	slog.Info("Debt settled",
		"group_id", groupID,
		"from", fromUser,
		"to", toUser,
		"amount", amount,
	)
	return debt, nil
}

// NextPayer returns the member who has spent the least and should pay next.
func (s *LedgerService) NextPayer(ctx context.Context, groupID string) (*models.Member, error) {
	members, expenses, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	next, err := ledger.NextPayer(members, expenses)
	if err != nil {
		slog.Debug("NextPayer not available", "group_id", groupID, "error", err)
		return nil, err
	}
	return next, nil
}

// DeleteExpense removes an expense, cascading to its linked counterpart when
// the expense was created by a savings deposit.
func (s *LedgerService) DeleteExpense(ctx context.Context, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	if expense.LinkedExpenseID != "" {
		err := s.store.DeleteExpense(ctx, expense.LinkedExpenseID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Error("DeleteExpense: linked cascade failed",
				"expense_id", expenseID, "linked_id", expense.LinkedExpenseID, "error", err)
			return err
		}
	}
	return nil
}

func (s *LedgerService) loadGroup(ctx context.Context, groupID string) ([]models.Member, []models.Expense, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		slog.Error("Failed to list members", "group_id", groupID, "error", err)
		return nil, nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		slog.Error("Failed to list expenses", "group_id", groupID, "error", err)
		return nil, nil, err
	}
	return members, expenses, nil
}

func isMember(uid string, members []models.Member) bool {
	for _, m := range members {
		if m.UID == uid {
			return true
		}
	}
	return false
}
