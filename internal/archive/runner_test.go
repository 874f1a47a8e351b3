package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
	"github.com/hearthshare/ledger/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hearthshare-archive-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedGroup populates a group with two members, one regular and one temporary
// category, and three expenses.
func seedGroup(t *testing.T, store storage.Store) (groupID string, regularCatID string, tempCatID string) {
	t.Helper()
	ctx := context.Background()

	group := &models.Group{Name: "Flat 4B"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, uid := range []string{"alice", "bob"} {
		if err := store.AddMember(ctx, &models.Member{GroupID: group.ID, UID: uid, Name: uid}); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	regular := &models.Category{GroupID: group.ID, Name: "Groceries", Budget: 400, Lifecycle: models.LifecycleRegular}
	if err := store.CreateCategory(ctx, regular); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	temp := &models.Category{GroupID: group.ID, Name: "Ski Trip", Budget: 900, Lifecycle: models.LifecycleTemporary}
	if err := store.CreateCategory(ctx, temp); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	expenses := []*models.Expense{
		{GroupID: group.ID, Amount: 55.20, Description: "weekly shop", CategoryID: regular.ID, UserID: "alice"},
		{GroupID: group.ID, Amount: 120, Description: "lift passes", CategoryID: temp.ID, UserID: "bob"},
		{GroupID: group.ID, Amount: 9.99, Description: "cleaning spray", UserID: "alice"},
	}
	for _, e := range expenses {
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
	}

	return group.ID, regular.ID, temp.ID
}

func TestRunGroupResetPolicy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	groupID, regularID, tempID := seedGroup(t, store)

	runner := NewRunner(store)
	result, err := runner.RunGroup(ctx, groupID, 2026, 8)
	if err != nil {
		t.Fatalf("RunGroup failed: %v", err)
	}

	if result.ArchiveID != "2026-08" {
		t.Errorf("archive id = %s, want 2026-08", result.ArchiveID)
	}
	if result.CategoriesArchived != 2 || result.CategoriesPurged != 1 || result.CategoriesReset != 1 {
		t.Errorf("category counts = %+v, want 2 archived, 1 purged, 1 reset", result)
	}
	if result.ExpensesArchived != 3 || result.ExpensesDeleted != 3 {
		t.Errorf("expense counts = %+v, want 3 archived and deleted", result)
	}

	// Regular category survives with budget zeroed.
	regular, err := store.GetCategory(ctx, regularID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if regular.Budget != 0 {
		t.Errorf("regular category budget = %v, want 0", regular.Budget)
	}

	// Temporary category is gone.
	if _, err := store.GetCategory(ctx, tempID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("temporary category: error = %v, want ErrNotFound", err)
	}

	// No live expenses remain.
	live, err := store.ListExpenses(ctx, groupID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(live) != 0 {
		t.Errorf("live expenses = %d, want 0", len(live))
	}

	// Archive holds identical copies.
	archivedExps, err := store.ListArchivedExpenses(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedExpenses failed: %v", err)
	}
	if len(archivedExps) != 3 {
		t.Fatalf("archived expenses = %d, want 3", len(archivedExps))
	}
	byID := make(map[string]models.ArchivedExpense)
	for _, e := range archivedExps {
		byID[e.ExpenseID] = e
	}
	for _, e := range archivedExps {
		if e.ArchivedAt == 0 {
			t.Errorf("archived expense %s missing ArchivedAt", e.ExpenseID)
		}
	}
	var tempLinked bool
	for _, e := range byID {
		if e.CategoryID == tempID {
			tempLinked = true
			if e.Amount != 120 || e.Description != "lift passes" {
				t.Errorf("archived copy diverged from original: %+v", e)
			}
		}
	}
	if !tempLinked {
		t.Error("archived expenses lost their category reference")
	}

	archivedCats, err := store.ListArchivedCategories(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedCategories failed: %v", err)
	}
	if len(archivedCats) != 2 {
		t.Fatalf("archived categories = %d, want 2", len(archivedCats))
	}
	for _, c := range archivedCats {
		// Copies keep the pre-reset budget.
		if c.CategoryID == regularID && c.Budget != 400 {
			t.Errorf("archived regular budget = %v, want pre-reset 400", c.Budget)
		}
		if c.CategoryID == tempID && c.Budget != 900 {
			t.Errorf("archived temporary budget = %v, want 900", c.Budget)
		}
	}
}

func TestRunGroupIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	groupID, _, _ := seedGroup(t, store)

	runner := NewRunner(store)
	if _, err := runner.RunGroup(ctx, groupID, 2026, 8); err != nil {
		t.Fatalf("first RunGroup failed: %v", err)
	}

	firstExps, err := store.ListArchivedExpenses(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedExpenses failed: %v", err)
	}
	firstCats, err := store.ListArchivedCategories(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedCategories failed: %v", err)
	}

	// Second run with no intervening live-data changes.
	if _, err := runner.RunGroup(ctx, groupID, 2026, 8); err != nil {
		t.Fatalf("second RunGroup failed: %v", err)
	}

	secondExps, err := store.ListArchivedExpenses(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedExpenses failed: %v", err)
	}
	secondCats, err := store.ListArchivedCategories(ctx, groupID, "2026-08")
	if err != nil {
		t.Fatalf("ListArchivedCategories failed: %v", err)
	}

	if len(secondExps) != len(firstExps) {
		t.Errorf("archived expenses after rerun = %d, want %d (overwrite, not duplicate)", len(secondExps), len(firstExps))
	}
	// The second run sees the already-reset live state: the temporary
	// category is gone, so only the regular one is re-archived over its key.
	if len(secondCats) != len(firstCats) {
		t.Errorf("archived categories after rerun = %d, want %d", len(secondCats), len(firstCats))
	}
}

// failingStore wraps a Store and fails PutArchivedExpense after a set number
// of successful calls.
type failingStore struct {
	storage.Store
	failAfter int
	calls     int
}

var errInjected = errors.New("injected remote failure")

func (f *failingStore) PutArchivedExpense(ctx context.Context, exp *models.ArchivedExpense) error {
	f.calls++
	if f.calls > f.failAfter {
		return errInjected
	}
	return f.Store.PutArchivedExpense(ctx, exp)
}

func TestRunGroupAbortsOnStepFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	groupID, _, _ := seedGroup(t, store)

	failing := &failingStore{Store: store, failAfter: 1}
	runner := NewRunner(failing)

	result, err := runner.RunGroup(ctx, groupID, 2026, 8)
	if err == nil {
		t.Fatal("RunGroup succeeded, want step failure")
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error = %v, want *StepError", err)
	}
	if stepErr.Stage != StageExpenseCopy {
		t.Errorf("failed stage = %s, want %s", stepErr.Stage, StageExpenseCopy)
	}
	if stepErr.GroupID != groupID || stepErr.DocID == "" {
		t.Errorf("StepError missing context: %+v", stepErr)
	}
	if !errors.Is(err, errInjected) {
		t.Errorf("StepError does not wrap the cause: %v", err)
	}

	// One expense made it through, the rest were not attempted; completed
	// writes are left in place.
	if result.ExpensesArchived != 1 {
		t.Errorf("expenses archived before abort = %d, want 1", result.ExpensesArchived)
	}
	live, err := store.ListExpenses(ctx, groupID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(live) != 2 {
		t.Errorf("live expenses after abort = %d, want 2 remaining", len(live))
	}

	// Categories completed before the expense stage and stay in their
	// post-step state.
	cats, err := store.ListCategories(ctx, groupID)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].Budget != 0 {
		t.Errorf("categories after abort = %+v, want single reset regular category", cats)
	}
}

func TestRunAllIsolatesGroupFailures(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	healthyID, _, _ := seedGroup(t, store)
	brokenID, _, _ := seedGroup(t, store)

	// Batch order is unspecified, so scope the injected failure to one group.
	failing := &groupScopedFailingStore{Store: store, failGroup: brokenID}
	runner := NewRunner(failing)

	report, err := runner.RunAll(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(report.Groups) != 2 {
		t.Fatalf("report groups = %d, want 2", len(report.Groups))
	}

	outcomes := make(map[string]Outcome)
	for _, g := range report.Groups {
		outcomes[g.GroupID] = g.Outcome
	}
	if outcomes[healthyID] != OutcomeArchived {
		t.Errorf("healthy group outcome = %s, want %s", outcomes[healthyID], OutcomeArchived)
	}
	if outcomes[brokenID] != OutcomePartial {
		t.Errorf("broken group outcome = %s, want %s", outcomes[brokenID], OutcomePartial)
	}
	if report.Failed() != 1 {
		t.Errorf("report.Failed() = %d, want 1", report.Failed())
	}
}

// groupScopedFailingStore fails expense archival for one specific group.
type groupScopedFailingStore struct {
	storage.Store
	failGroup string
}

func (f *groupScopedFailingStore) PutArchivedExpense(ctx context.Context, exp *models.ArchivedExpense) error {
	if exp.GroupID == f.failGroup {
		return errInjected
	}
	return f.Store.PutArchivedExpense(ctx, exp)
}

func TestSweepExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat 4B"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expired := &models.Category{
		GroupID: group.ID, Name: "Birthday Party", Budget: 100,
		Lifecycle: models.LifecycleTemporary, EventEndDate: 1000,
	}
	current := &models.Category{
		GroupID: group.ID, Name: "Road Trip", Budget: 300,
		Lifecycle: models.LifecycleTemporary, EventEndDate: 1 << 40,
	}
	openEnded := &models.Category{
		GroupID: group.ID, Name: "Groceries", Budget: 400,
		Lifecycle: models.LifecycleRegular,
	}
	for _, c := range []*models.Category{expired, current, openEnded} {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}
	partyExpense := &models.Expense{GroupID: group.ID, Amount: 40, Description: "cake", CategoryID: expired.ID, UserID: "alice"}
	if err := store.CreateExpense(ctx, partyExpense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	runner := NewRunner(store)
	purged, err := runner.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	if _, err := store.GetCategory(ctx, expired.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expired category: error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetCategory(ctx, current.ID); err != nil {
		t.Errorf("current temporary category should survive: %v", err)
	}
	if _, err := store.GetExpense(ctx, partyExpense.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expired category's expense: error = %v, want ErrNotFound", err)
	}
}
