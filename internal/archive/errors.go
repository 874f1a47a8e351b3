package archive

import "fmt"

// Stage names the step of the cycle a failure happened in.
type Stage string

const (
	StageSnapshot       Stage = "snapshot"
	StageCategoryCopy   Stage = "category_copy"
	StageCategoryReset  Stage = "category_reset"
	StageCategoryDelete Stage = "category_delete"
	StageExpenseCopy    Stage = "expense_copy"
	StageExpenseDelete  Stage = "expense_delete"
)

// StepError reports a remote read/write that failed mid-cycle, carrying which
// group, stage and document was in flight. Writes completed before the
// failure are left in place; re-running the same month rolls the cycle
// forward because every archive write is keyed.
type StepError struct {
	GroupID string
	Stage   Stage
	DocID   string
	Err     error
}

func (e *StepError) Error() string {
	if e.DocID == "" {
		return fmt.Sprintf("archive cycle for group %s failed at %s: %v", e.GroupID, e.Stage, e.Err)
	}
	return fmt.Sprintf("archive cycle for group %s failed at %s (%s): %v", e.GroupID, e.Stage, e.DocID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
