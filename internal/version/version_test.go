package version

import (
	"strings"
	"testing"

	"dogpark-server/internal/snapshot"
)

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{
			name:     "epoch date",
			date:     "1999-01-31",
			expected: 0,
		},
		{
			name:     "next day after epoch",
			date:     "1999-02-01",
			expected: 1,
		},
		{
			name:     "one year later",
			date:     "2000-01-31",
			expected: 365,
		},
		{
			name:      "invalid format",
			date:      "invalid",
			wantError: true,
		},
		{
			name:      "empty date",
			date:      "",
			wantError: true,
		},
		{
			name:      "before epoch",
			date:      "1999-01-30",
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			old := BuildDate
			defer func() { BuildDate = old }()

			BuildDate = tt.date

			got, err := CalculateBuildID()

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("CalculateBuildID() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInfoReportsSnapshotFormat(t *testing.T) {
	old := BuildDate
	defer func() { BuildDate = old }()
	BuildDate = "1999-02-01"

	info := Info()
	if info.SnapshotFormat != snapshot.FormatVersion {
		t.Errorf("SnapshotFormat = %d, want %d", info.SnapshotFormat, snapshot.FormatVersion)
	}
}

func TestStringIncludesSnapshotFormat(t *testing.T) {
	old := BuildDate
	defer func() { BuildDate = old }()
	BuildDate = "1999-02-01"

	s := String()
	want := "snapshot[v1]"
	if !strings.Contains(s, want) {
		t.Errorf("String() = %q, want it to contain %q", s, want)
	}
}
