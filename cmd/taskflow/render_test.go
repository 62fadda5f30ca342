package main

import (
	"testing"
	"time"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "explicit date parses to the midnight label",
			raw:  "2025-03-10",
			want: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "malformed date errors",
			raw:     "10/03/2025",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDate(tt.raw, time.UTC)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("resolveDate(%q) expected error, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDate(%q) unexpected error: %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("resolveDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveDateDefaultsToToday(t *testing.T) {
	got, err := resolveDate("", time.UTC)
	if err != nil {
		t.Fatalf("resolveDate(\"\") unexpected error: %v", err)
	}
	now := time.Now().UTC()
	if got.Year() != now.Year() || got.Month() != now.Month() || got.Day() != now.Day() {
		t.Errorf("resolveDate(\"\") = %v, want today's label", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("resolveDate(\"\") = %v, want a midnight label", got)
	}
}

func TestTimelineInterval(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	scheduled := &models.Task{ScheduledStartTime: &start, ScheduledEndTime: &end}
	if got := timelineInterval(scheduled, time.UTC); got != "09:00 - 09:45" {
		t.Errorf("timelineInterval(scheduled) = %q, want %q", got, "09:00 - 09:45")
	}

	if got := timelineInterval(&models.Task{}, time.UTC); got != "--:-- --:--" {
		t.Errorf("timelineInterval(unscheduled) = %q, want %q", got, "--:-- --:--")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long task name here", 10, "a very ..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
