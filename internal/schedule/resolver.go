package schedule

// ResolutionKind tells which precedence path produced a slot's template.
type ResolutionKind int

const (
	// ResolvedMissing marks a content-library gap for an otherwise valid
	// slot. It is reported, not surfaced as a user error.
	ResolvedMissing ResolutionKind = iota
	// ResolvedDefault comes from the periodization-mapped library entry.
	ResolvedDefault
	// ResolvedOverride comes from a persistent slot override.
	ResolvedOverride
)

// Resolution is the outcome of resolving a slot to content. Modelling the
// precedence as an explicit sum keeps the override-before-default rule
// exhaustively matched instead of hidden in nil checks.
type Resolution struct {
	Kind     ResolutionKind
	Template Template
}

// Resolved reports whether the slot has content at all.
func (r Resolution) Resolved() bool {
	return r.Kind != ResolvedMissing
}

// ResolveSlot returns the template shown at a slot: the persistent slot
// override when present, otherwise the periodization-mapped default from the
// static library.
func ResolveSlot(program *Program, overrides OverrideRecord, library Library, slot Slot) Resolution {
	if templateID, ok := overrides.SlotOverrides[slot]; ok {
		if template, found := library.ByID(templateID); found {
			return Resolution{Kind: ResolvedOverride, Template: template}
		}
		// An override pointing at a template missing from the library is the
		// same data error as a library gap.
		return Resolution{Kind: ResolvedMissing, Template: Template{}}
	}
	return resolveDefault(program, library, slot)
}

// resolveDefault ignores overrides and returns the library default for the
// slot.
func resolveDefault(program *Program, library Library, slot Slot) Resolution {
	templateWeek := TemplateWeek(slot.Week, program.WeeksPerPhase)
	template, ok := library.Find(program.CategoryID, slot.Phase, program.Skill, templateWeek, slot.Day)
	if !ok {
		return Resolution{Kind: ResolvedMissing, Template: Template{}}
	}
	return Resolution{Kind: ResolvedDefault, Template: template}
}

// findSlotForTemplate scans the program for the slot currently resolving to
// the template. The scan is bounded by the program's finite slot count.
func findSlotForTemplate(program *Program, overrides OverrideRecord, library Library, templateID int64) (Slot, bool) {
	for index := range program.TotalSlots() {
		slot, ok := SlotForIndex(index, program.WeeksPerPhase, program.WorkoutsPerWeek())
		if !ok {
			break
		}
		resolution := ResolveSlot(program, overrides, library, slot)
		if resolution.Resolved() && resolution.Template.ID == templateID {
			return slot, true
		}
	}
	return Slot{}, false
}

// setSlotOverride records a slot override, pruning it when it matches the
// library default so the record never accumulates redundant entries.
func setSlotOverride(program *Program, overrides *OverrideRecord, library Library, slot Slot, templateID int64) {
	if defaultResolution := resolveDefault(program, library, slot); defaultResolution.Resolved() &&
		defaultResolution.Template.ID == templateID {
		delete(overrides.SlotOverrides, slot)
		return
	}
	overrides.SlotOverrides[slot] = templateID
}
