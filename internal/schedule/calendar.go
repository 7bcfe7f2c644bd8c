package schedule

import (
	"time"
)

// CalendarEntry is one workout shown on one calendar date.
type CalendarEntry struct {
	Date         string `json:"date"`
	Slot         *Slot  `json:"slot,omitempty"`
	TemplateID   int64  `json:"templateId,omitempty"`
	TemplateName string `json:"templateName,omitempty"`
	TemplateWeek int    `json:"templateWeek,omitempty"`
	WeekLabel    string `json:"weekLabel,omitempty"`
	// VolumeMultiplier is the relative training volume of the template week.
	VolumeMultiplier float64 `json:"volumeMultiplier,omitempty"`
	// Unavailable marks a content-library gap; the entry is shown without
	// template detail instead of failing the whole view.
	Unavailable  bool `json:"unavailable,omitempty"`
	IsLocked     bool `json:"isLocked"`
	IsCompleted  bool `json:"isCompleted"`
	IsInProgress bool `json:"isInProgress"`
	IsToday      bool `json:"isToday"`
	// PinnedToCompletion marks an entry shown on the date the workout was
	// actually completed rather than its scheduled date.
	PinnedToCompletion bool `json:"pinnedToCompletion,omitempty"`
}

// CalendarDay groups the entries of one calendar date.
type CalendarDay struct {
	Date          string          `json:"date"`
	IsTrainingDay bool            `json:"isTrainingDay"`
	Entries       []CalendarEntry `json:"entries"`
}

// CalendarMeta summarises the program for calendar rendering.
type CalendarMeta struct {
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	TotalSlots      int     `json:"totalSlots"`
	WeeksPerPhase   int     `json:"weeksPerPhase"`
	WorkoutsPerWeek int     `json:"workoutsPerWeek"`
	CurrentPhase    Phase   `json:"currentPhase"`
	CurrentWeek     int     `json:"currentWeek"`
	CurrentDay      int     `json:"currentDay"`
	UnlockedPhases  []Phase `json:"unlockedPhases"`
	Paused          bool    `json:"paused"`
}

// BuildCalendarMeta assembles the program-level calendar metadata.
func BuildCalendarMeta(program *Program) CalendarMeta {
	unlocked := make([]Phase, 0, len(phaseOrder))
	for _, phase := range phaseOrder {
		if program.PhaseUnlocked(phase) {
			unlocked = append(unlocked, phase)
		}
	}
	lastIndex := program.TotalSlots() - 1
	return CalendarMeta{
		StartDate:       FirstTrainingDate(program.StartDate, program.TrainingDays).Format(dateFormat),
		EndDate:         DateForIndex(program.StartDate, program.TrainingDays, lastIndex).Format(dateFormat),
		TotalSlots:      program.TotalSlots(),
		WeeksPerPhase:   program.WeeksPerPhase,
		WorkoutsPerWeek: program.WorkoutsPerWeek(),
		CurrentPhase:    program.CurrentPhase,
		CurrentWeek:     program.CurrentWeek,
		CurrentDay:      program.CurrentDay,
		UnlockedPhases:  unlocked,
		Paused:          program.PausedAt != nil,
	}
}

// BuildCalendarView assembles the per-date workout lists for a date window.
// Everything is computed from the aggregates loaded once by the caller; no
// per-date storage round-trips. Locked phases stay visible but flagged, and a
// workout completed on a different date than scheduled is pinned to its real
// completion date.
func BuildCalendarView(
	program *Program,
	overrides OverrideRecord,
	library Library,
	facts []CompletedSession,
	from, to time.Time,
	today time.Time,
) []CalendarDay {
	from = atMidnight(from)
	to = atMidnight(to)
	today = atMidnight(today)
	if to.Before(from) {
		return nil
	}

	completed := NewCompletedSet(facts)

	// Index every slot by its effective date.
	type scheduledSlot struct {
		slot       Slot
		resolution Resolution
	}
	byDate := make(map[time.Time][]scheduledSlot)
	scheduledDates := make(map[int64]time.Time)
	for index := range program.TotalSlots() {
		slot, ok := SlotForIndex(index, program.WeeksPerPhase, program.WorkoutsPerWeek())
		if !ok {
			break
		}
		date := EffectiveDate(program, overrides, slot)
		resolution := ResolveSlot(program, overrides, library, slot)
		byDate[date] = append(byDate[date], scheduledSlot{slot: slot, resolution: resolution})
		if resolution.Resolved() {
			scheduledDates[resolution.Template.ID] = date
		}
	}

	days := make([]CalendarDay, 0, int(to.Sub(from).Hours())/24+1)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		day := CalendarDay{
			Date:          date.Format(dateFormat),
			IsTrainingDay: program.TrainingDays.Contains(date.Weekday()),
			Entries:       nil,
		}
		seenTemplates := make(map[int64]bool)

		for _, scheduled := range byDate[date] {
			entry := CalendarEntry{ //nolint:exhaustruct // flags default false.
				Date:     day.Date,
				Slot:     &scheduled.slot,
				IsLocked: !program.PhaseUnlocked(scheduled.slot.Phase),
				IsToday:  date.Equal(today),
			}
			if scheduled.resolution.Resolved() {
				template := scheduled.resolution.Template
				entry.TemplateID = template.ID
				entry.TemplateName = template.Name
				entry.TemplateWeek = template.TemplateWeek
				entry.WeekLabel = TemplateWeekLabel(template.TemplateWeek)
				entry.VolumeMultiplier = VolumeMultiplier(template.TemplateWeek)
				entry.IsCompleted = completed.IsCompleted(template.ID)
				entry.IsInProgress = completed.IsInProgress(template.ID)
				seenTemplates[template.ID] = true
			} else {
				entry.Unavailable = true
			}
			day.Entries = append(day.Entries, entry)
		}

		// Pin completions whose real date differs from the schedule, without
		// duplicating entries already present on this date.
		for _, fact := range facts {
			if fact.Status != SessionCompleted {
				continue
			}
			completedDate := atMidnight(fact.CompletedAt)
			if !completedDate.Equal(date) || seenTemplates[fact.TemplateID] {
				continue
			}
			if scheduledDate, ok := scheduledDates[fact.TemplateID]; ok && scheduledDate.Equal(date) {
				continue
			}
			entry := CalendarEntry{ //nolint:exhaustruct // flags default false.
				Date:               day.Date,
				TemplateID:         fact.TemplateID,
				IsCompleted:        true,
				IsToday:            date.Equal(today),
				PinnedToCompletion: true,
			}
			if template, ok := library.ByID(fact.TemplateID); ok {
				entry.TemplateName = template.Name
				entry.TemplateWeek = template.TemplateWeek
				entry.WeekLabel = TemplateWeekLabel(template.TemplateWeek)
				entry.VolumeMultiplier = VolumeMultiplier(template.TemplateWeek)
			}
			day.Entries = append(day.Entries, entry)
			seenTemplates[fact.TemplateID] = true
		}

		days = append(days, day)
	}
	return days
}

// DefaultCalendarWindow returns the whole program bracketed by a one-week
// display buffer on both sides.
func DefaultCalendarWindow(program *Program) (from, to time.Time) {
	const displayBufferDays = 7
	first := FirstTrainingDate(program.StartDate, program.TrainingDays)
	last := DateForIndex(program.StartDate, program.TrainingDays, program.TotalSlots()-1)
	return first.AddDate(0, 0, -displayBufferDays), last.AddDate(0, 0, displayBufferDays)
}
