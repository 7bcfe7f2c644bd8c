package schedule

import (
	"log/slog"
	"time"

	"github.com/villesola/traincal/internal/errors"
)

// SwapWorkouts exchanges the content of two slots in the same phase and week
// via paired slot overrides. Completed workouts and locked phases reject the
// swap before anything is written.
func SwapWorkouts(
	program *Program,
	overrides OverrideRecord,
	library Library,
	completed CompletedSet,
	source, target Slot,
) (OverrideRecord, error) {
	if err := program.ValidateSlot(source); err != nil {
		return overrides, errors.Wrap(err, "validate source slot")
	}
	if err := program.ValidateSlot(target); err != nil {
		return overrides, errors.Wrap(err, "validate target slot")
	}
	if source == target {
		return overrides, &ConflictError{Code: ConflictSameSlot, Message: "source and target are the same slot"}
	}
	if source.Phase != target.Phase || source.Week != target.Week {
		return overrides, &ConflictError{
			Code:    ConflictCrossWeekSwap,
			Message: "workouts can only be swapped within the same week of the same phase",
		}
	}
	if !program.PhaseUnlocked(source.Phase) {
		return overrides, &ConflictError{Code: ConflictPhaseLocked, Message: "phase is not unlocked yet"}
	}

	sourceResolution := ResolveSlot(program, overrides, library, source)
	targetResolution := ResolveSlot(program, overrides, library, target)
	if !sourceResolution.Resolved() || !targetResolution.Resolved() {
		return overrides, errors.Wrap(ErrTemplateGap, "resolve swap slots",
			slog.String("source", source.String()), slog.String("target", target.String()))
	}
	if completed.IsCompleted(sourceResolution.Template.ID) || completed.IsCompleted(targetResolution.Template.ID) {
		return overrides, &ConflictError{
			Code:    ConflictWorkoutCompleted,
			Message: "completed workouts cannot be swapped",
		}
	}

	next := overrides.Clone()
	setSlotOverride(program, &next, library, source, targetResolution.Template.ID)
	setSlotOverride(program, &next, library, target, sourceResolution.Template.ID)
	return next, nil
}

// EffectiveDate returns the calendar date a slot occupies: its date override
// when present, otherwise the algebraic default.
func EffectiveDate(program *Program, overrides OverrideRecord, slot Slot) time.Time {
	if date, ok := overrides.DateOverrides[slot]; ok {
		return atMidnight(date)
	}
	index := AbsoluteIndex(slot, program.WeeksPerPhase, program.WorkoutsPerWeek())
	return DateForIndex(program.StartDate, program.TrainingDays, index)
}

// slotAtEffectiveDate finds the slot currently occupying a calendar date,
// taking date overrides into account. A slot whose default date was taken
// over by another slot's override still occupies its default date.
func slotAtEffectiveDate(program *Program, overrides OverrideRecord, date time.Time) (Slot, bool) {
	target := atMidnight(date)
	for index := range program.TotalSlots() {
		slot, ok := SlotForIndex(index, program.WeeksPerPhase, program.WorkoutsPerWeek())
		if !ok {
			break
		}
		if EffectiveDate(program, overrides, slot).Equal(target) {
			return slot, true
		}
	}
	return Slot{}, false
}

// setDateOverride records a date override, pruning it when it matches the
// slot's algebraic default date.
func setDateOverride(program *Program, overrides *OverrideRecord, slot Slot, date time.Time) {
	index := AbsoluteIndex(slot, program.WeeksPerPhase, program.WorkoutsPerWeek())
	defaultDate := DateForIndex(program.StartDate, program.TrainingDays, index)
	if defaultDate.Equal(atMidnight(date)) {
		delete(overrides.DateOverrides, slot)
		return
	}
	overrides.DateOverrides[slot] = atMidnight(date)
}

// MoveWorkoutToDate relocates a slot's effective date without touching its
// content. When another slot occupies the target date the two dates are
// exchanged so no date ends up hosting two workouts.
func MoveWorkoutToDate(
	program *Program,
	overrides OverrideRecord,
	library Library,
	completed CompletedSet,
	source Slot,
	targetDate time.Time,
) (OverrideRecord, error) {
	if err := program.ValidateSlot(source); err != nil {
		return overrides, errors.Wrap(err, "validate source slot")
	}
	if !program.PhaseUnlocked(source.Phase) {
		return overrides, &ConflictError{Code: ConflictPhaseLocked, Message: "phase is not unlocked yet"}
	}

	sourceResolution := ResolveSlot(program, overrides, library, source)
	if sourceResolution.Resolved() && completed.IsCompleted(sourceResolution.Template.ID) {
		return overrides, &ConflictError{
			Code:    ConflictWorkoutCompleted,
			Message: "completed workouts cannot be moved",
		}
	}

	sourceDate := EffectiveDate(program, overrides, source)
	target := atMidnight(targetDate)
	if sourceDate.Equal(target) {
		return overrides, nil
	}

	next := overrides.Clone()
	if occupant, occupied := slotAtEffectiveDate(program, overrides, target); occupied && occupant != source {
		occupantResolution := ResolveSlot(program, overrides, library, occupant)
		if occupantResolution.Resolved() && completed.IsCompleted(occupantResolution.Template.ID) {
			return overrides, &ConflictError{
				Code:    ConflictWorkoutCompleted,
				Message: "target date holds a completed workout",
			}
		}
		// Reciprocal move: the displaced slot takes over the source's old
		// effective date.
		setDateOverride(program, &next, occupant, sourceDate)
	}
	setDateOverride(program, &next, source, target)
	return next, nil
}
