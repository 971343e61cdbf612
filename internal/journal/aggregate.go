package journal

import (
	"sort"
	"strings"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

// Aggregate folds the record's timeline into its summary fields and sorts the
// timeline by time. Summary fields are recomputed from scratch
func Aggregate(record *domain.DayRecord, rules *RuleTable) {
	if rules == nil {
		rules = DefaultRuleTable()
	}

	var (
		caffeine, hydration float64
		stress              []float64
		stressNotes         []string
		window              domain.SleepWindow
	)
	meals := []domain.Meal{}
	meds := []domain.Medication{}
	episodes := []domain.PainEpisode{}

	for _, e := range record.TimelineEvents {
		switch e.Type {
		case domain.EventCaffeine:
			if e.HasValue() {
				caffeine += *e.Value
			}
		case domain.EventHydration:
			if e.HasValue() {
				hydration += *e.Value
			}
		case domain.EventStress:
			if e.HasValue() {
				stress = append(stress, *e.Value)
			}
			if e.Notes != "" {
				stressNotes = append(stressNotes, e.Notes)
			}
		case domain.EventMeal:
			meals = append(meals, domain.Meal{
				Time:  utils.ClockPart(e.Time, rules.mealTime(e.Subtype)),
				Notes: e.Notes,
			})
		case domain.EventMed, domain.EventSupplement:
			if med, ok := medicationEntry(e, rules); ok {
				meds = append(meds, med)
			}
		case domain.EventPain:
			if e.HasValue() {
				episodes = append(episodes, domain.PainEpisode{
					Start:     e.Time,
					Location:  rules.PainLocation,
					Intensity: []float64{*e.Value},
					Notes:     e.Notes,
				})
			}
		case domain.EventSleepNote:
			switch e.Subtype {
			case "bedtime":
				window.Bed = utils.ClockPart(e.Time, rules.Times.Bedtime)
			case "wake":
				window.Wake = utils.ClockPart(e.Time, rules.Times.Wake)
			}
		}
	}

	record.CaffeineMg = caffeine
	record.HydrationOz = hydration
	record.StressLevel = averageLevel(stress)
	record.StressNotes = strings.Join(stressNotes, "; ")
	record.Meals = meals
	record.Medications = meds
	record.PainEpisodes = episodes
	record.SleepWindow = window

	sort.SliceStable(record.TimelineEvents, func(i, j int) bool {
		return record.TimelineEvents[i].Time < record.TimelineEvents[j].Time
	})
}

// averageLevel returns the truncated mean, or nil for no readings
func averageLevel(values []float64) *int {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	level := int(sum / float64(len(values)))
	return &level
}

// medicationEntry reports a med or supplement event that names a recognized
// medication. The dose is the extracted value, else the medication default,
// else its name
func medicationEntry(e domain.TimelineEvent, rules *RuleTable) (domain.Medication, bool) {
	s, ok := rules.medication(e.Subtype)
	if !ok {
		s, ok = rules.medication(e.Notes)
	}
	if !ok {
		return domain.Medication{}, false
	}

	dose := s.Name
	switch {
	case e.HasValue():
		dose = strings.TrimSpace(formatNumber(*e.Value) + " " + e.Units)
	case s.Dose > 0:
		dose = formatNumber(s.Dose) + " " + s.Units
	}
	return domain.Medication{
		Time: utils.ClockPart(e.Time, rules.Times.Bedtime),
		Name: s.Name,
		Dose: dose,
	}, true
}
