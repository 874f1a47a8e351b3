package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hearthshare/ledger/internal/metrics"
	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

// maxConcurrentGroups bounds the batch fan-out. Groups hold disjoint data, so
// they can be cycled in parallel without ordering concerns.
const maxConcurrentGroups = 4

// Runner executes the archive/reset cycle against a store. Both the
// admin-triggered single-group path and the scheduled batch path go through
// the same RunGroup, so both produce identical archive content.
//
// The cycle is deliberately not transactional across documents: every write
// is keyed, the first failing step aborts the group's cycle, and a re-run
// for the same month overwrites completed steps and rolls the rest forward.
type Runner struct {
	store storage.Store
	now   func() time.Time
}

// NewRunner creates a Runner backed by the given store.
func NewRunner(store storage.Store) *Runner {
	return &Runner{store: store, now: time.Now}
}

// GroupResult summarizes one group's completed cycle steps.
type GroupResult struct {
	GroupID   string `json:"groupId"`
	ArchiveID string `json:"archiveId"`

	CategoriesArchived int `json:"categoriesArchived"`
	CategoriesPurged   int `json:"categoriesPurged"`
	CategoriesReset    int `json:"categoriesReset"`
	ExpensesArchived   int `json:"expensesArchived"`
	ExpensesDeleted    int `json:"expensesDeleted"`
}

// progressed reports whether any archive write landed before a failure.
func (r *GroupResult) progressed() bool {
	return r.CategoriesArchived > 0 || r.ExpensesArchived > 0
}

// RunGroup archives and resets a single group for the given period.
//
// Steps, in order: write the snapshot root, then per category copy-then-purge
// (temporary) or copy-then-zero-budget (regular), then per expense
// copy-then-delete. Archival always happens before the destructive step for
// the same document. On failure the returned GroupResult still carries the
// counts completed so far and the error is a *StepError.
func (r *Runner) RunGroup(ctx context.Context, groupID string, year, month int) (*GroupResult, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}

	start := r.now()
	archiveID := ID(year, month)
	result := &GroupResult{GroupID: groupID, ArchiveID: archiveID}

	err := r.runGroup(ctx, result, groupID, archiveID, year, month)

	metrics.ArchiveCycleDuration.Observe(r.now().Sub(start).Seconds())
	metrics.ArchiveCycles.WithLabelValues(string(outcomeOf(result, err))).Inc()

	if err != nil {
		slog.Error("Archive cycle failed",
			"group_id", groupID,
			"archive_id", archiveID,
			"error", err,
		)
		return result, err
	}

	slog.Info("Archive cycle complete",
		"group_id", groupID,
		"archive_id", archiveID,
		"categories_archived", result.CategoriesArchived,
		"categories_purged", result.CategoriesPurged,
		"categories_reset", result.CategoriesReset,
		"expenses_archived", result.ExpensesArchived,
	)
	return result, nil
}

func (r *Runner) runGroup(ctx context.Context, result *GroupResult, groupID, archiveID string, year, month int) error {
	if _, err := r.store.GetGroup(ctx, groupID); err != nil {
		return &StepError{GroupID: groupID, Stage: StageSnapshot, Err: err}
	}

	now := r.now().Unix()
	snap := &models.ArchiveSnapshot{
		ArchiveID: archiveID,
		GroupID:   groupID,
		Year:      year,
		Month:     month,
		CreatedAt: now,
	}
	if err := r.store.PutArchiveSnapshot(ctx, snap); err != nil {
		return &StepError{GroupID: groupID, Stage: StageSnapshot, Err: err}
	}

	categories, err := r.store.ListCategories(ctx, groupID)
	if err != nil {
		return &StepError{GroupID: groupID, Stage: StageCategoryCopy, Err: err}
	}
	for i := range categories {
		cat := &categories[i]
		if err := r.store.PutArchivedCategory(ctx, models.ArchiveCategory(cat, archiveID, now)); err != nil {
			return &StepError{GroupID: groupID, Stage: StageCategoryCopy, DocID: cat.ID, Err: err}
		}
		result.CategoriesArchived++

		if cat.Temporary() {
			if err := r.store.DeleteCategory(ctx, cat.ID); err != nil {
				return &StepError{GroupID: groupID, Stage: StageCategoryDelete, DocID: cat.ID, Err: err}
			}
			result.CategoriesPurged++
		} else {
			if err := r.store.UpdateCategoryBudget(ctx, cat.ID, 0); err != nil {
				return &StepError{GroupID: groupID, Stage: StageCategoryReset, DocID: cat.ID, Err: err}
			}
			result.CategoriesReset++
		}
	}

	expenses, err := r.store.ListExpenses(ctx, groupID)
	if err != nil {
		return &StepError{GroupID: groupID, Stage: StageExpenseCopy, Err: err}
	}
	for i := range expenses {
		exp := &expenses[i]
		if err := r.store.PutArchivedExpense(ctx, models.ArchiveExpense(exp, archiveID, now)); err != nil {
			return &StepError{GroupID: groupID, Stage: StageExpenseCopy, DocID: exp.ID, Err: err}
		}
		result.ExpensesArchived++

		if err := r.store.DeleteExpense(ctx, exp.ID); err != nil {
			return &StepError{GroupID: groupID, Stage: StageExpenseDelete, DocID: exp.ID, Err: err}
		}
		result.ExpensesDeleted++
	}

	return nil
}

// Outcome classifies how a group fared in a batch run.
type Outcome string

const (
	// OutcomeArchived means the group's cycle completed fully.
	OutcomeArchived Outcome = "archived"
	// OutcomePartial means some archive writes landed before a step failed.
	OutcomePartial Outcome = "partial"
	// OutcomeNotAttempted means the cycle failed before any archive write.
	OutcomeNotAttempted Outcome = "not_attempted"
)

func outcomeOf(result *GroupResult, err error) Outcome {
	switch {
	case err == nil:
		return OutcomeArchived
	case result != nil && result.progressed():
		return OutcomePartial
	default:
		return OutcomeNotAttempted
	}
}

// GroupOutcome is one group's entry in a batch report.
type GroupOutcome struct {
	GroupID string       `json:"groupId"`
	Outcome Outcome      `json:"outcome"`
	Result  *GroupResult `json:"result,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Report aggregates a batch run across all groups. A failed group never stops
// the others; the report says which groups archived fully, which were left
// partial, and which were not attempted at all.
type Report struct {
	ArchiveID string         `json:"archiveId"`
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Groups    []GroupOutcome `json:"groups"`
}

// Failed returns the number of groups that did not archive fully.
func (r *Report) Failed() int {
	n := 0
	for _, g := range r.Groups {
		if g.Outcome != OutcomeArchived {
			n++
		}
	}
	return n
}

// RunAll runs the archive cycle for every group. Groups are processed with
// bounded concurrency; per-group failures are collected into the report
// rather than returned. The only hard error is failing to list groups.
func (r *Runner) RunAll(ctx context.Context, year, month int) (*Report, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range", month)
	}

	groups, err := r.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for archive batch: %w", err)
	}

	report := &Report{ArchiveID: ID(year, month), Year: year, Month: month}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentGroups)

	for _, group := range groups {
		g.Go(func() error {
			outcome := GroupOutcome{GroupID: group.ID}

			if err := gctx.Err(); err != nil {
				outcome.Outcome = OutcomeNotAttempted
				outcome.Error = err.Error()
			} else {
				result, err := r.RunGroup(gctx, group.ID, year, month)
				outcome.Outcome = outcomeOf(result, err)
				outcome.Result = result
				if err != nil {
					outcome.Error = err.Error()
				}
			}

			mu.Lock()
			report.Groups = append(report.Groups, outcome)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	slog.Info("Archive batch complete",
		"archive_id", report.ArchiveID,
		"groups", len(report.Groups),
		"failed", report.Failed(),
	)
	return report, nil
}

// SweepExpired purges temporary categories whose event end date has passed,
// along with their live expenses. Runs daily from the scheduler.
func (r *Runner) SweepExpired(ctx context.Context) (int, error) {
	groups, err := r.store.ListGroups(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list groups for expiry sweep: %w", err)
	}

	now := r.now().Unix()
	purged := 0
	for _, group := range groups {
		categories, err := r.store.ListCategories(ctx, group.ID)
		if err != nil {
			return purged, fmt.Errorf("failed to list categories for group %s: %w", group.ID, err)
		}
		for i := range categories {
			cat := &categories[i]
			if !cat.Expired(now) {
				continue
			}

			expenses, err := r.store.ListExpensesByCategory(ctx, group.ID, cat.ID)
			if err != nil {
				return purged, fmt.Errorf("failed to list expenses for category %s: %w", cat.ID, err)
			}
			for _, exp := range expenses {
				if err := r.store.DeleteExpense(ctx, exp.ID); err != nil {
					return purged, fmt.Errorf("failed to delete expense %s: %w", exp.ID, err)
				}
			}
			if err := r.store.DeleteCategory(ctx, cat.ID); err != nil {
				return purged, fmt.Errorf("failed to delete expired category %s: %w", cat.ID, err)
			}

			metrics.ExpiredCategories.Inc()
			purged++
			slog.Info("Purged expired category",
				"group_id", group.ID,
				"category_id", cat.ID,
				"name", cat.Name,
			)
		}
	}
	return purged, nil
}
