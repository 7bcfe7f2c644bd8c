package schedule_test

import (
	"testing"
	"time"

	"github.com/villesola/traincal/internal/schedule"
)

func monWedFri() schedule.TrainingDays {
	days, err := schedule.NewTrainingDays([]time.Weekday{time.Monday, time.Wednesday, time.Friday})
	if err != nil {
		panic(err)
	}
	return days
}

func TestDateForIndex_MonWedFri(t *testing.T) {
	// 2024-01-01 is a Monday.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := monWedFri()
	weeksPerPhase := 4

	tests := []struct {
		name string
		slot schedule.Slot
		want string
	}{
		{
			name: "first workout lands on the start date",
			slot: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1},
			want: "2024-01-01",
		},
		{
			name: "third workout of the week lands on Friday",
			slot: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 3},
			want: "2024-01-05",
		},
		{
			name: "second week starts the following Monday",
			slot: schedule.Slot{Phase: schedule.PhaseGPP, Week: 2, Day: 1},
			want: "2024-01-08",
		},
		{
			name: "second phase follows the first without a gap",
			slot: schedule.Slot{Phase: schedule.PhaseSPP, Week: 1, Day: 1},
			want: "2024-01-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := schedule.AbsoluteIndex(tt.slot, weeksPerPhase, len(days))
			got := schedule.DateForIndex(start, days, index).Format(time.DateOnly)
			if got != tt.want {
				t.Errorf("DateForIndex(%s) = %s, want %s", tt.slot, got, tt.want)
			}
		})
	}
}

func TestSlotForDate_RoundTrip(t *testing.T) {
	// Start mid-week on a non-training day: 2024-01-06 is a Saturday, so the
	// first workout falls on Monday the 8th.
	start := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	days := monWedFri()
	weeksPerPhase := 3
	totalSlots := weeksPerPhase * 3 * len(days)

	for index := range totalSlots {
		slot, ok := schedule.SlotForIndex(index, weeksPerPhase, len(days))
		if !ok {
			t.Fatalf("SlotForIndex(%d) unexpectedly out of range", index)
		}
		date := schedule.DateForIndex(start, days, index)
		back, ok := schedule.SlotForDate(start, days, date, weeksPerPhase)
		if !ok {
			t.Fatalf("SlotForDate(%s) failed for slot %s", date.Format(time.DateOnly), slot)
		}
		if back != slot {
			t.Errorf("round trip for index %d: got %s, want %s", index, back, slot)
		}
	}
}

func TestSlotForDate_Rejections(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := monWedFri()
	weeksPerPhase := 2

	tests := []struct {
		name string
		date time.Time
	}{
		{
			name: "rest day",
			date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), // Tuesday
		},
		{
			name: "before the program start",
			date: time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "beyond the final phase",
			date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if slot, ok := schedule.SlotForDate(start, days, tt.date, weeksPerPhase); ok {
				t.Errorf("SlotForDate(%s) = %s, want rejection", tt.date.Format(time.DateOnly), slot)
			}
		})
	}
}

func TestFirstTrainingDate_SkipsToTrainingDay(t *testing.T) {
	days := monWedFri()
	// Thursday start slides to Friday.
	start := time.Date(2024, 1, 4, 15, 30, 0, 0, time.UTC)
	got := schedule.FirstTrainingDate(start, days).Format(time.DateOnly)
	if got != "2024-01-05" {
		t.Errorf("FirstTrainingDate = %s, want 2024-01-05", got)
	}
}

func TestSlotForIndex_OutOfRange(t *testing.T) {
	if slot, ok := schedule.SlotForIndex(3*4*3, 4, 3); ok {
		t.Errorf("SlotForIndex past the last phase = %s, want rejection", slot)
	}
	if slot, ok := schedule.SlotForIndex(-1, 4, 3); ok {
		t.Errorf("SlotForIndex(-1) = %s, want rejection", slot)
	}
}
