package schedule

import (
	"time"
)

// All calendar math lives in this file. The rest of the package reasons in
// slots and absolute indices and never touches weekdays directly.

const dateFormat = time.DateOnly

// AbsoluteIndex orders every slot of the program on a single integer axis:
// phase blocks first, then weeks, then days. It is the basis for date mapping
// and cascade range comparisons.
func AbsoluteIndex(slot Slot, weeksPerPhase, workoutsPerWeek int) int {
	return slot.Phase.Ordinal()*weeksPerPhase*workoutsPerWeek +
		(slot.Week-1)*workoutsPerWeek +
		(slot.Day - 1)
}

// SlotForIndex decomposes an absolute index back into a slot coordinate. ok
// is false when the index falls outside the program.
func SlotForIndex(index, weeksPerPhase, workoutsPerWeek int) (Slot, bool) {
	if index < 0 || weeksPerPhase < 1 || workoutsPerWeek < 1 {
		return Slot{}, false
	}
	slotsPerPhase := weeksPerPhase * workoutsPerWeek
	phase, ok := phaseForOrdinal(index / slotsPerPhase)
	if !ok {
		return Slot{}, false
	}
	remainder := index % slotsPerPhase
	return Slot{
		Phase: phase,
		Week:  remainder/workoutsPerWeek + 1,
		Day:   remainder%workoutsPerWeek + 1,
	}, true
}

// atMidnight truncates a timestamp to its calendar day in UTC. The engine
// works at calendar-day granularity only.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FirstTrainingDate returns the first calendar date on or after the program
// start that falls on a training day.
func FirstTrainingDate(startDate time.Time, trainingDays TrainingDays) time.Time {
	date := atMidnight(startDate)
	for !trainingDays.Contains(date.Weekday()) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// DateForIndex maps an absolute slot index to its calendar date by stepping
// through the training-day cycle from the first training date.
func DateForIndex(startDate time.Time, trainingDays TrainingDays, index int) time.Time {
	date := FirstTrainingDate(startDate, trainingDays)
	for steps := 0; steps < index; {
		date = date.AddDate(0, 0, 1)
		if trainingDays.Contains(date.Weekday()) {
			steps++
		}
	}
	return date
}

// SlotForDate is the inverse of DateForIndex: it walks forward from the first
// training date counting training days until it reaches the target date and
// decomposes the step count into a slot. ok is false when the date is not a
// training day, precedes the program, or lies beyond the last phase.
func SlotForDate(startDate time.Time, trainingDays TrainingDays, date time.Time, weeksPerPhase int) (Slot, bool) {
	target := atMidnight(date)
	if !trainingDays.Contains(target.Weekday()) {
		return Slot{}, false
	}
	first := FirstTrainingDate(startDate, trainingDays)
	if target.Before(first) {
		return Slot{}, false
	}

	// The walk is bounded by the program size plus one spare week so that a
	// date past the last phase terminates instead of scanning forever.
	maxSteps := weeksPerPhase*len(phaseOrder)*len(trainingDays) + len(trainingDays)
	steps := 0
	for current := first; !current.Equal(target); current = current.AddDate(0, 0, 1) {
		if trainingDays.Contains(current.Weekday()) && !current.Equal(first) {
			steps++
		}
		if steps > maxSteps {
			return Slot{}, false
		}
	}
	// The loop counts intermediate training days; the target itself is the
	// final step unless it is the first training date.
	if !target.Equal(first) {
		steps++
	}
	return SlotForIndex(steps, weeksPerPhase, len(trainingDays))
}
