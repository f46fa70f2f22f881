package pumpfun

import (
	"testing"

	"pumpstream/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		logs []string
		want domain.EventKind
	}{
		{
			name: "create",
			logs: []string{"Program log: Instruction: Create", "Program data: AAAA"},
			want: domain.EventCreate,
		},
		{
			name: "buy",
			logs: []string{"Program log: Instruction: Buy"},
			want: domain.EventTrade,
		},
		{
			name: "sell",
			logs: []string{"Program log: Instruction: Sell"},
			want: domain.EventTrade,
		},
		{
			name: "create pool",
			logs: []string{"Program log: Instruction: CreatePool"},
			want: domain.EventGraduation,
		},
		{
			name: "migrate",
			logs: []string{"Program log: Instruction: Migrate"},
			want: domain.EventGraduation,
		},
		{
			name: "rejected re-migration is not a graduation",
			logs: []string{
				"Program log: Instruction: Migrate",
				"Program log: bonding curve already migrated",
			},
			want: domain.EventUnknown,
		},
		{
			name: "rejected re-migration with trade lines stays a trade",
			logs: []string{
				"Program log: Instruction: Migrate",
				"Program log: already migrated",
				"Program log: Instruction: Sell",
			},
			want: domain.EventTrade,
		},
		{
			name: "graduation outranks create",
			logs: []string{
				"Program log: Instruction: Create",
				"Program log: Instruction: CreatePool",
			},
			want: domain.EventGraduation,
		},
		{
			name: "create outranks trade",
			logs: []string{
				"Program log: Instruction: Buy",
				"Program log: Instruction: Create",
			},
			want: domain.EventCreate,
		},
		{
			name: "create pool line is not a create",
			logs: []string{"Program log: Instruction: CreatePool"},
			want: domain.EventGraduation,
		},
		{
			name: "unrelated logs",
			logs: []string{"Program log: Instruction: Transfer"},
			want: domain.EventUnknown,
		},
		{
			name: "empty",
			logs: nil,
			want: domain.EventUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.logs); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
