package ledger

import (
	"errors"
	"testing"

	"github.com/hearthshare/ledger/internal/models"
)

func TestNextPayer(t *testing.T) {
	tests := []struct {
		name     string
		members  []models.Member
		expenses []models.Expense
		want     string
		wantErr  error
	}{
		{
			name:     "least spent pays next",
			members:  members("a", "b", "c"),
			expenses: []models.Expense{expense("a", 30), expense("c", 90)},
			want:     "b",
		},
		{
			name:     "tie goes to first member in list",
			members:  members("a", "b"),
			expenses: []models.Expense{expense("a", 5), expense("b", 5)},
			want:     "a",
		},
		{
			name:     "single member is not enough",
			members:  members("a"),
			expenses: []models.Expense{expense("a", 5)},
			wantErr:  ErrInsufficientData,
		},
		{
			name:    "no expenses is not enough",
			members: members("a", "b"),
			wantErr: ErrInsufficientData,
		},
		{
			name:     "negative amount rejected",
			members:  members("a", "b"),
			expenses: []models.Expense{expense("a", -1)},
			wantErr:  ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextPayer(tt.members, tt.expenses)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NextPayer() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextPayer failed: %v", err)
			}
			if got.UID != tt.want {
				t.Errorf("NextPayer() = %s, want %s", got.UID, tt.want)
			}
		})
	}
}

func TestNextPayerDeterministicOnTies(t *testing.T) {
	ms := members("x", "y", "z")
	expenses := []models.Expense{expense("x", 5), expense("y", 5), expense("z", 5)}

	for i := 0; i < 10; i++ {
		got, err := NextPayer(ms, expenses)
		if err != nil {
			t.Fatalf("NextPayer failed: %v", err)
		}
		if got.UID != "x" {
			t.Fatalf("NextPayer() = %s on run %d, want x every time", got.UID, i)
		}
	}
}
