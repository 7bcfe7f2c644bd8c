package schedule_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/villesola/traincal/internal/schedule"
)

func TestWeekMapping(t *testing.T) {
	tests := []struct {
		name          string
		weeksPerPhase int
		want          []int
	}{
		{
			name:          "canonical four weeks map one to one",
			weeksPerPhase: 4,
			want:          []int{1, 2, 3, 4},
		},
		{
			name:          "two weeks keep introduction and deload",
			weeksPerPhase: 2,
			want:          []int{1, 4},
		},
		{
			name:          "three weeks drop the peak",
			weeksPerPhase: 3,
			want:          []int{1, 2, 4},
		},
		{
			name:          "five weeks stretch the build",
			weeksPerPhase: 5,
			want:          []int{1, 2, 2, 3, 4},
		},
		{
			name:          "six weeks split the middle evenly",
			weeksPerPhase: 6,
			want:          []int{1, 2, 2, 3, 3, 4},
		},
		{
			name:          "seven weeks put the extra week in the build",
			weeksPerPhase: 7,
			want:          []int{1, 2, 2, 2, 3, 3, 4},
		},
		{
			name:          "eight weeks at the maximum",
			weeksPerPhase: 8,
			want:          []int{1, 2, 2, 2, 3, 3, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.WeekMapping(tt.weeksPerPhase)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WeekMapping(%d) mismatch (-want +got):\n%s", tt.weeksPerPhase, diff)
			}
		})
	}
}

func TestTemplateWeekBoundaries(t *testing.T) {
	for weeksPerPhase := schedule.MinWeeksPerPhase; weeksPerPhase <= schedule.MaxWeeksPerPhase; weeksPerPhase++ {
		if got := schedule.TemplateWeek(1, weeksPerPhase); got != 1 {
			t.Errorf("TemplateWeek(1, %d) = %d, want introduction week 1", weeksPerPhase, got)
		}
		if got := schedule.TemplateWeek(weeksPerPhase, weeksPerPhase); got != 4 {
			t.Errorf("TemplateWeek(%d, %d) = %d, want deload week 4", weeksPerPhase, weeksPerPhase, got)
		}

		// The mapping must never move backwards through the cycle.
		previous := 0
		for userWeek := 1; userWeek <= weeksPerPhase; userWeek++ {
			templateWeek := schedule.TemplateWeek(userWeek, weeksPerPhase)
			if templateWeek < previous {
				t.Errorf("TemplateWeek(%d, %d) = %d regressed below %d",
					userWeek, weeksPerPhase, templateWeek, previous)
			}
			previous = templateWeek
		}
	}
}

func TestClampWeeksPerPhase(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 2},
		{in: 1, want: 2},
		{in: 2, want: 2},
		{in: 5, want: 5},
		{in: 8, want: 8},
		{in: 12, want: 8},
	}
	for _, tt := range tests {
		if got := schedule.ClampWeeksPerPhase(tt.in); got != tt.want {
			t.Errorf("ClampWeeksPerPhase(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTemplateWeekLabel(t *testing.T) {
	want := map[int]string{1: "Introduction", 2: "Build", 3: "Peak", 4: "Deload"}
	for templateWeek, label := range want {
		if got := schedule.TemplateWeekLabel(templateWeek); got != label {
			t.Errorf("TemplateWeekLabel(%d) = %q, want %q", templateWeek, got, label)
		}
	}
}

func TestVolumeMultiplier(t *testing.T) {
	want := map[int]float64{1: 0.7, 2: 0.85, 3: 1.0, 4: 0.6}
	for templateWeek, multiplier := range want {
		if got := schedule.VolumeMultiplier(templateWeek); got != multiplier {
			t.Errorf("VolumeMultiplier(%d) = %v, want %v", templateWeek, got, multiplier)
		}
	}
}
