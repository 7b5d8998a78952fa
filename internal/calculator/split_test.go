package calculator

import (
	"errors"
	"testing"

	"github.com/mmynk/groupledger/internal/models"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		users   []string
		want    []string
		wantErr bool
	}{
		{
			name:   "even split",
			amount: "30.00",
			users:  []string{"Alice", "Bob", "Carol"},
			want:   []string{"10", "10", "10"},
		},
		{
			name:   "remainder goes to last member",
			amount: "10.00",
			users:  []string{"Alice", "Bob", "Carol"},
			want:   []string{"3.33", "3.33", "3.34"},
		},
		{
			name:   "two leftover cents spread over last two",
			amount: "0.05",
			users:  []string{"Alice", "Bob", "Carol"},
			want:   []string{"0.01", "0.02", "0.02"},
		},
		{
			name:   "single participant takes everything",
			amount: "12.34",
			users:  []string{"Alice"},
			want:   []string{"12.34"},
		},
		{
			name:    "no participants should error",
			amount:  "10.00",
			users:   nil,
			wantErr: true,
		},
		{
			name:    "zero amount should error",
			amount:  "0",
			users:   []string{"Alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := SplitEqually(d(tt.amount), tt.users)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitEqually() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(splits) != len(tt.want) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.want))
			}
			for i, s := range splits {
				if s.UserID != tt.users[i] {
					t.Errorf("split %d user = %s, want %s", i, s.UserID, tt.users[i])
				}
				if !s.Amount.Equal(d(tt.want[i])) {
					t.Errorf("split %d amount = %s, want %s", i, s.Amount, tt.want[i])
				}
			}
			if err := ValidateSplits(d(tt.amount), splits); err != nil {
				t.Errorf("generated splits do not validate: %v", err)
			}
			total := (&models.Expense{Splits: splits}).SplitTotal()
			if !total.Equal(d(tt.amount)) {
				t.Errorf("splits sum to %s, want %s exactly", total, tt.amount)
			}
		})
	}
}

func TestValidateSplits(t *testing.T) {
	split := func(user, amount string) models.ExpenseSplit {
		return models.ExpenseSplit{UserID: user, Amount: d(amount)}
	}

	tests := []struct {
		name    string
		amount  string
		splits  []models.ExpenseSplit
		wantErr error
	}{
		{"exact", "10", []models.ExpenseSplit{split("A", "5"), split("B", "5")}, nil},
		{"within one cent", "10", []models.ExpenseSplit{split("A", "3.33"), split("B", "3.33"), split("C", "3.33")}, nil},
		{"off by more than a cent", "10", []models.ExpenseSplit{split("A", "3"), split("B", "3")}, ErrSplitMismatch},
		{"negative share", "10", []models.ExpenseSplit{split("A", "12"), split("B", "-2")}, ErrNegativeSplit},
		{"zero share allowed", "10", []models.ExpenseSplit{split("A", "10"), split("B", "0")}, nil},
		{"empty", "10", nil, ErrNoParticipants},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplits(d(tt.amount), tt.splits)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
