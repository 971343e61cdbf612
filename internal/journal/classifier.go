package journal

import (
	"strings"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
)

// Classification is the category a journal row resolves to
type Classification struct {
	Rule    string
	Type    domain.EventType
	Subtype string
	Notes   string
}

// fieldRule pairs a label predicate with the builder for its events
type fieldRule struct {
	name      string
	keywords  []string
	eventType domain.EventType
	subtype   func(field, desc string) string
	build     builder
}

func (r fieldRule) matches(field string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(field, kw) {
			return true
		}
	}
	return false
}

func fixed(subtype string) func(field, desc string) string {
	return func(string, string) string { return subtype }
}

// fieldRules is evaluated top to bottom against the lower-cased field label;
// the first match wins, so the order is the tie-break for labels carrying
// several keywords
var fieldRules = []fieldRule{
	{name: "sleep", keywords: []string{"sleep"}, eventType: domain.EventSleepNote, subtype: fixed("general"), build: buildSleep},
	{name: "wake", keywords: []string{"wake"}, eventType: domain.EventSleepNote, subtype: fixed("wake"), build: buildWake},
	{name: "bedtime", keywords: []string{"bedtime"}, eventType: domain.EventSleepNote, subtype: fixed("bedtime"), build: buildBedtime},
	{name: "hydration", keywords: []string{"hydration", "bottle"}, eventType: domain.EventHydration, subtype: fixed("water"), build: buildHydration},
	{name: "meal", keywords: []string{"breakfast", "lunch", "dinner", "meal", "snack"}, eventType: domain.EventMeal, subtype: mealSubtype, build: buildMeal},
	{name: "caffeine", keywords: []string{"caffeine", "coffee"}, eventType: domain.EventCaffeine, subtype: fixed("coffee"), build: buildCaffeine},
	{name: "supplement", keywords: []string{"supplement", "medication"}, eventType: domain.EventSupplement, subtype: fixed("general"), build: buildSupplements},
	{name: "bodycare", keywords: []string{"bodycare", "therapy", "exercise", "workout", "stretch"}, eventType: domain.EventBodycare, subtype: fixed("therapy"), build: buildBodycare},
	{name: "stress", keywords: []string{"stress", "meeting", "anxiety", "work"}, eventType: domain.EventStress, subtype: stressSubtype, build: buildStress},
	{name: "pain", keywords: []string{"pain", "fog", "headache", "migraine"}, eventType: domain.EventPain, subtype: fixed("status_update"), build: buildPain},
	{name: "activity", keywords: []string{"activity", "movie", "entertainment"}, eventType: domain.EventActivity, subtype: activitySubtype, build: buildActivity},
}

var noteRule = fieldRule{name: "note", eventType: domain.EventNote, subtype: fixed("general"), build: buildNote}

func mealSubtype(field, _ string) string {
	for _, meal := range []string{"breakfast", "lunch", "dinner", "snack"} {
		if strings.Contains(field, meal) {
			return meal
		}
	}
	return "meal"
}

func stressSubtype(field, desc string) string {
	if strings.Contains(desc, "meeting") || strings.Contains(field, "meeting") {
		return "meeting"
	}
	return "general"
}

func activitySubtype(field, desc string) string {
	if strings.Contains(field, "movie") || strings.Contains(desc, "movie") {
		return "movie"
	}
	return "general"
}

func ruleFor(field string) fieldRule {
	for _, r := range fieldRules {
		if r.matches(field) {
			return r
		}
	}
	return noteRule
}

// Classify maps a field label and description to an event type and subtype.
// Only the label selects the rule; the description can refine the subtype
func Classify(field, desc string) Classification {
	_, c := classify(strings.TrimSpace(field), strings.TrimSpace(desc))
	return c
}

func classify(field, desc string) (fieldRule, Classification) {
	lowerField := strings.ToLower(field)
	r := ruleFor(lowerField)
	c := Classification{
		Rule:    r.name,
		Type:    r.eventType,
		Subtype: r.subtype(lowerField, strings.ToLower(desc)),
		Notes:   desc,
	}
	if r.eventType == domain.EventNote {
		c.Notes = field + ": " + desc
	}
	return r, c
}
