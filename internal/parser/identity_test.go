package parser

import (
	"testing"
	"time"

	"resource-tracker/internal/model"
)

func TestResolve_PriorityChain(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name string
		rec  model.ParsedRecord
		want string
	}{
		{
			name: "username wins over everything",
			rec:  model.ParsedRecord{Username: "user001", Serial: "SN-1", ComputerName: "DESKTOP-X"},
			want: "user001",
		},
		{
			name: "serial when no username",
			rec:  model.ParsedRecord{Serial: "SN-1", ComputerName: "DESKTOP-X"},
			want: "serial_SN-1",
		},
		{
			name: "computer name as last stable signal",
			rec:  model.ParsedRecord{ComputerName: "DESKTOP-X"},
			want: "pc_DESKTOP-X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(&tt.rec); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_AnonymousFallback(t *testing.T) {
	fixed := time.Date(2025, 12, 5, 5, 21, 21, 0, time.UTC)
	r := NewResolverWithClock(func() time.Time { return fixed })

	got := r.Resolve(&model.ParsedRecord{})
	want := "unknown_20251205052121"
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver()
	rec := &model.ParsedRecord{Username: "user001"}

	first := r.Resolve(rec)
	second := r.Resolve(rec)
	if first != second {
		t.Errorf("resolution not stable: %q != %q", first, second)
	}
}
