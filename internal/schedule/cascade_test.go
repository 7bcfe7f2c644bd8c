package schedule_test

import (
	"testing"
	"time"

	"github.com/villesola/traincal/internal/errors"
	"github.com/villesola/traincal/internal/schedule"
)

func TestCascadeToToday_ShiftsWindow(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	overrides := schedule.NewOverrideRecord()
	today := date(t, "2024-01-01") // GPP W1 D1

	// Select Friday's workout (GPP W1 D3) on Monday.
	selected := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 3})

	next, result, err := schedule.CascadeToToday(&program, overrides, library, schedule.CompletedSet{}, today, selected)
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
	if !result.Applied || result.Reason != schedule.CascadeApplied {
		t.Fatalf("cascade result = %+v, want applied", result)
	}
	if result.AffectedSlots != 3 {
		t.Errorf("affected slots = %d, want 3", result.AffectedSlots)
	}

	// Today holds the selection, the two displaced workouts shifted right.
	wantByDay := map[int]schedule.Slot{
		1: {Phase: schedule.PhaseGPP, Week: 1, Day: 3},
		2: {Phase: schedule.PhaseGPP, Week: 1, Day: 1},
		3: {Phase: schedule.PhaseGPP, Week: 1, Day: 2},
	}
	for day, sourceSlot := range wantByDay {
		slot := schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: day}
		resolution := schedule.ResolveSlot(&program, next, library, slot)
		want := templateAt(t, &program, library, sourceSlot)
		if !resolution.Resolved() || resolution.Template.ID != want {
			t.Errorf("slot %s resolves to %d, want template %d", slot, resolution.Template.ID, want)
		}
	}

	if next.TodayFocusTemplateID == nil || *next.TodayFocusTemplateID != selected {
		t.Errorf("today focus = %v, want %d", next.TodayFocusTemplateID, selected)
	}
}

func TestCascadeToToday_NoOps(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	overrides := schedule.NewOverrideRecord()

	tests := []struct {
		name     string
		today    string
		selected schedule.Slot
		want     schedule.CascadeReason
	}{
		{
			name:     "rest day",
			today:    "2024-01-02", // Tuesday
			selected: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			want:     schedule.CascadeNotTrainingDay,
		},
		{
			name:     "selection already sits on today",
			today:    "2024-01-03",
			selected: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2},
			want:     schedule.CascadeAlreadyToday,
		},
		{
			name:     "selection lies in the past",
			today:    "2024-01-05",
			selected: schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 1},
			want:     schedule.CascadeWorkoutInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := templateAt(t, &program, library, tt.selected)
			next, result, err := schedule.CascadeToToday(&program, overrides, library,
				schedule.CompletedSet{}, date(t, tt.today), selected)
			if err != nil {
				t.Fatalf("cascade: %v", err)
			}
			if result.Applied || result.Reason != tt.want {
				t.Errorf("result = %+v, want no-op %s", result, tt.want)
			}
			if len(next.SlotOverrides) != 0 {
				t.Errorf("no-op cascade wrote %d slot overrides", len(next.SlotOverrides))
			}
		})
	}
}

func TestCascadeToToday_CompletedWorkoutBlocks(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	overrides := schedule.NewOverrideRecord()
	today := date(t, "2024-01-01")

	// Wednesday's workout sits inside the cascade window and is completed.
	blocking := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 2})
	completed := schedule.NewCompletedSet([]schedule.CompletedSession{
		{TemplateID: blocking, Status: schedule.SessionCompleted, CompletedAt: time.Now()},
	})
	selected := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 3})

	_, _, err := schedule.CascadeToToday(&program, overrides, library, completed, today, selected)

	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) || conflict.Code != schedule.ConflictWorkoutCompleted {
		t.Fatalf("err = %v, want workout_completed conflict", err)
	}
	if len(overrides.SlotOverrides) != 0 {
		t.Errorf("blocked cascade mutated the override record")
	}
}

func TestCascadeToToday_UnknownTemplate(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)

	_, _, err := schedule.CascadeToToday(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, date(t, "2024-01-01"), 999999)
	if !errors.Is(err, schedule.ErrTemplateNotScheduled) {
		t.Fatalf("err = %v, want ErrTemplateNotScheduled", err)
	}
}

func TestCascadeToToday_Idempotent(t *testing.T) {
	program := testProgram(t)
	library := testLibrary(&program)
	today := date(t, "2024-01-01")
	selected := templateAt(t, &program, library, schedule.Slot{Phase: schedule.PhaseGPP, Week: 1, Day: 3})

	first, _, err := schedule.CascadeToToday(&program, schedule.NewOverrideRecord(), library,
		schedule.CompletedSet{}, today, selected)
	if err != nil {
		t.Fatalf("first cascade: %v", err)
	}

	// Re-running with the already-cascaded record is a no-op: the selection
	// now sits on today.
	second, result, err := schedule.CascadeToToday(&program, first, library,
		schedule.CompletedSet{}, today, selected)
	if err != nil {
		t.Fatalf("second cascade: %v", err)
	}
	if result.Applied || result.Reason != schedule.CascadeAlreadyToday {
		t.Errorf("second cascade = %+v, want already_today no-op", result)
	}
	if len(second.SlotOverrides) != len(first.SlotOverrides) {
		t.Errorf("second cascade changed the override record")
	}
}
