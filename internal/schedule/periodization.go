package schedule

// The content library carries exactly four weeks of material per phase:
// Introduction, Build, Peak, and Deload. Phases can span anywhere between two
// and eight real weeks, so user-facing week numbers are remapped onto the
// fixed 1-4 template weeks while preserving that shape: the first real week is
// always the Introduction, the last is always the Deload, and the middle
// weeks split between Build and Peak.

const (
	// MinWeeksPerPhase and MaxWeeksPerPhase bound the phase length.
	MinWeeksPerPhase = 2
	MaxWeeksPerPhase = 8

	templateWeekIntroduction = 1
	templateWeekBuild        = 2
	templateWeekPeak         = 3
	templateWeekDeload       = 4
)

// ClampWeeksPerPhase forces a phase length into the supported range.
func ClampWeeksPerPhase(weeksPerPhase int) int {
	return min(max(weeksPerPhase, MinWeeksPerPhase), MaxWeeksPerPhase)
}

// TemplateWeek maps a user-facing week number onto the 1-4 template week.
func TemplateWeek(userWeek, weeksPerPhase int) int {
	weeksPerPhase = ClampWeeksPerPhase(weeksPerPhase)
	userWeek = min(max(userWeek, 1), weeksPerPhase)

	switch {
	case weeksPerPhase == 4: //nolint:mnd // identity with the library layout.
		return userWeek
	case userWeek == 1:
		return templateWeekIntroduction
	case userWeek == weeksPerPhase:
		return templateWeekDeload
	}

	// Middle weeks split evenly between Build and Peak, the first half
	// (rounded up) building.
	middleWeeks := weeksPerPhase - 2 //nolint:mnd // everything but intro and deload.
	splitPoint := (middleWeeks + 1) / 2
	if userWeek-1 <= splitPoint {
		return templateWeekBuild
	}
	return templateWeekPeak
}

// WeekMapping returns the full user-week to template-week mapping for a phase
// length, e.g. WeekMapping(6) = [1 2 2 3 3 4].
func WeekMapping(weeksPerPhase int) []int {
	weeksPerPhase = ClampWeeksPerPhase(weeksPerPhase)
	mapping := make([]int, weeksPerPhase)
	for week := 1; week <= weeksPerPhase; week++ {
		mapping[week-1] = TemplateWeek(week, weeksPerPhase)
	}
	return mapping
}

// TemplateWeekLabel returns the display name of a template week.
func TemplateWeekLabel(templateWeek int) string {
	switch templateWeek {
	case templateWeekIntroduction:
		return "Introduction"
	case templateWeekBuild:
		return "Build"
	case templateWeekPeak:
		return "Peak"
	case templateWeekDeload:
		return "Deload"
	}
	return "Unknown"
}

// VolumeMultiplier returns the relative training volume of a template week,
// used for display and derived intensity.
func VolumeMultiplier(templateWeek int) float64 {
	switch templateWeek {
	case templateWeekIntroduction:
		return 0.7
	case templateWeekBuild:
		return 0.85
	case templateWeekPeak:
		return 1.0
	case templateWeekDeload:
		return 0.6
	}
	return 1.0
}
