package schedule

import (
	"log/slog"
	"time"

	"github.com/villesola/traincal/internal/errors"
)

// CascadeReason explains a cascade decision.
type CascadeReason string

const (
	// CascadeApplied means the window was shifted.
	CascadeApplied CascadeReason = "applied"
	// CascadeNotTrainingDay means today has no workout slot to receive the
	// selection.
	CascadeNotTrainingDay CascadeReason = "not_training_day"
	// CascadeAlreadyToday means the selection already sits on today's slot.
	CascadeAlreadyToday CascadeReason = "already_today"
	// CascadeWorkoutInPast means the selection sits before today; cascading
	// never moves a workout backward in time.
	CascadeWorkoutInPast CascadeReason = "workout_in_past"
)

// CascadeResult reports what a cascade did.
type CascadeResult struct {
	Applied       bool          `json:"applied"`
	Reason        CascadeReason `json:"reason"`
	AffectedSlots int           `json:"affectedSlots"`
}

// CascadeToToday implements "start = swap": the selected future workout's
// content moves into today's slot and every slot in between shifts down one
// position. The whole window must be mutable; a completed workout anywhere in
// it blocks the cascade. Deterministic: the same program, overrides, facts,
// and date always produce the same decision, so retries are idempotent.
func CascadeToToday(
	program *Program,
	overrides OverrideRecord,
	library Library,
	completed CompletedSet,
	today time.Time,
	selectedTemplateID int64,
) (OverrideRecord, CascadeResult, error) {
	noop := func(reason CascadeReason) (OverrideRecord, CascadeResult, error) {
		return overrides, CascadeResult{Applied: false, Reason: reason, AffectedSlots: 0}, nil
	}

	todaySlot, ok := SlotForDate(program.StartDate, program.TrainingDays, today, program.WeeksPerPhase)
	if !ok {
		return noop(CascadeNotTrainingDay)
	}

	selectedSlot, found := findSlotForTemplate(program, overrides, library, selectedTemplateID)
	if !found {
		return overrides, CascadeResult{}, errors.Wrap(ErrTemplateNotScheduled, "locate selected workout",
			slog.Int64("templateID", selectedTemplateID))
	}

	workoutsPerWeek := program.WorkoutsPerWeek()
	todayIndex := AbsoluteIndex(todaySlot, program.WeeksPerPhase, workoutsPerWeek)
	selectedIndex := AbsoluteIndex(selectedSlot, program.WeeksPerPhase, workoutsPerWeek)

	if selectedIndex == todayIndex {
		return noop(CascadeAlreadyToday)
	}
	if selectedIndex < todayIndex {
		return noop(CascadeWorkoutInPast)
	}

	// Resolve the whole inclusive window up front: the shift must read the
	// pre-cascade content, and a completed workout anywhere in the window
	// blocks the mutation before anything is written.
	windowSize := selectedIndex - todayIndex + 1
	windowSlots := make([]Slot, 0, windowSize)
	windowTemplates := make([]int64, 0, windowSize)
	for index := todayIndex; index <= selectedIndex; index++ {
		slot, slotOK := SlotForIndex(index, program.WeeksPerPhase, workoutsPerWeek)
		if !slotOK {
			return overrides, CascadeResult{}, errors.Wrap(ErrTemplateGap, "decompose cascade window index",
				slog.Int("index", index))
		}
		resolution := ResolveSlot(program, overrides, library, slot)
		if !resolution.Resolved() {
			return overrides, CascadeResult{}, errors.Wrap(ErrTemplateGap, "resolve cascade window slot",
				slog.String("slot", slot.String()))
		}
		if completed.IsCompleted(resolution.Template.ID) {
			return overrides, CascadeResult{}, errors.Wrap(
				&ConflictError{
					Code:    ConflictWorkoutCompleted,
					Message: "cannot cascade through a completed workout",
				},
				"check cascade window",
				slog.String("slot", slot.String()),
				slog.Int64("templateID", resolution.Template.ID),
			)
		}
		windowSlots = append(windowSlots, slot)
		windowTemplates = append(windowTemplates, resolution.Template.ID)
	}

	// Right shift: today receives the selection, each later slot receives its
	// predecessor's pre-cascade content.
	next := overrides.Clone()
	setSlotOverride(program, &next, library, windowSlots[0], selectedTemplateID)
	for position := 1; position < len(windowSlots); position++ {
		setSlotOverride(program, &next, library, windowSlots[position], windowTemplates[position-1])
	}
	next.TodayFocusTemplateID = &selectedTemplateID

	return next, CascadeResult{
		Applied:       true,
		Reason:        CascadeApplied,
		AffectedSlots: len(windowSlots),
	}, nil
}
