package journal

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

type builder func(r *rowInput) []domain.TimelineEvent

// rowInput carries one classified row through its builder
type rowInput struct {
	field string
	desc  string
	date  string
	// times are the clock times found in the description, else in the field label
	times []string
	class Classification
	rules *RuleTable
}

// at returns the first extracted time, else the default clock for the day
func (r *rowInput) at(defaultClock string) string {
	if len(r.times) > 0 {
		return r.times[0]
	}
	return utils.Stamp(r.date, defaultClock)
}

func (r *rowInput) event(time, subtype, notes string) domain.TimelineEvent {
	return domain.TimelineEvent{
		Time:    time,
		Type:    r.class.Type,
		Subtype: subtype,
		Notes:   notes,
	}
}

// measure extracts the value for the row's event type from text
func (r *rowInput) measure(text string) (Measurement, bool) {
	return ExtractValue(r.class.Type, text, r.rules)
}

func withMeasurement(e domain.TimelineEvent, m Measurement) domain.TimelineEvent {
	v := m.Value
	e.Value = &v
	e.Units = m.Units
	return e
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// span is a byte range of a description
type span struct {
	start, end int
}

// clauses splits text on ";" and line breaks
func clauses(text string) []span {
	var out []span
	start := 0
	for i, ch := range text {
		if ch == ';' || ch == '\n' {
			out = append(out, span{start, i})
			start = i + 1
		}
	}
	return append(out, span{start, len(text)})
}

func clauseAt(text string, pos int) span {
	for _, c := range clauses(text) {
		if pos >= c.start && pos <= c.end {
			return c
		}
	}
	return span{0, len(text)}
}

// firstClockIn returns the first clock time inside [from, to) of text
func firstClockIn(clocks []clockMatch, from, to int) (string, bool) {
	for _, c := range clocks {
		if c.start >= from && c.end <= to {
			return c.clock, true
		}
	}
	return "", false
}

// substanceMention locates one recognized substance inside a description
type substanceMention struct {
	substance Substance
	pos       int
	// segment runs from the name to the next recognized name or the clause end
	segment span
}

var substanceExprs sync.Map // key -> *regexp.Regexp

// substanceExpr matches key case-insensitively in the original text, so
// match offsets stay valid for slicing desc
func substanceExpr(key string) *regexp.Regexp {
	if expr, ok := substanceExprs.Load(key); ok {
		return expr.(*regexp.Regexp)
	}
	expr, _ := substanceExprs.LoadOrStore(key, regexp.MustCompile("(?i)"+regexp.QuoteMeta(key)))
	return expr.(*regexp.Regexp)
}

func findSubstances(desc string, subs []Substance) []substanceMention {
	var found []substanceMention
	for _, s := range subs {
		if loc := substanceExpr(s.Key).FindStringIndex(desc); loc != nil {
			found = append(found, substanceMention{substance: s, pos: loc[0]})
		}
	}
	for i := range found {
		c := clauseAt(desc, found[i].pos)
		end := c.end
		for _, other := range found {
			if other.pos > found[i].pos && other.pos < end {
				end = other.pos
			}
		}
		found[i].segment = span{found[i].pos, end}
	}
	return found
}

// substanceEvent builds a supplement or med event for a mention, with the
// dose read next to the name or the substance default
func substanceEvent(desc string, m substanceMention, time, notes string) domain.TimelineEvent {
	s := m.substance
	e := domain.TimelineEvent{
		Time:    time,
		Type:    s.Kind,
		Subtype: s.Name,
		Notes:   notes,
	}
	if dose, ok := Dose(desc[m.segment.start:m.segment.end]); ok {
		return withMeasurement(e, dose)
	}
	if s.Dose > 0 {
		return withMeasurement(e, Measurement{Value: s.Dose, Units: s.Units})
	}
	return e
}

func medicationMentions(desc string, subs []Substance) []substanceMention {
	var meds []substanceMention
	for _, m := range findSubstances(desc, subs) {
		if m.substance.Kind == domain.EventMed {
			meds = append(meds, m)
		}
	}
	return meds
}

func buildWake(r *rowInput) []domain.TimelineEvent {
	at := r.at(r.rules.Times.Wake)
	events := []domain.TimelineEvent{r.event(at, "wake", r.desc)}
	if m, ok := MaxRating(r.desc); ok {
		events = append(events, withMeasurement(domain.TimelineEvent{
			Time:    at,
			Type:    domain.EventPain,
			Subtype: "wakeup_state",
			Notes:   r.desc,
		}, m))
	}
	return events
}

func buildBedtime(r *rowInput) []domain.TimelineEvent {
	at := r.at(r.rules.Times.Bedtime)
	events := []domain.TimelineEvent{r.event(at, "bedtime", r.desc)}
	for _, m := range medicationMentions(r.desc, r.rules.Substances) {
		events = append(events, substanceEvent(r.desc, m, at, "Bedtime dose"))
	}
	return events
}

var (
	plainWaterExpr = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*oz\s*plain\s*water`)
	bottleExpr     = regexp.MustCompile(`(?i)bottle.*?(\d+(?:\.\d+)?)\s*oz\b`)
)

// buildHydration emits one event per recognized sub-pattern, each timed by a
// clock in its own clause or its fixed default. Without either pattern the
// row becomes a single event carrying the sum of every ounce amount
func buildHydration(r *rowInput) []domain.TimelineEvent {
	clocks := findClocks(r.desc)
	var events []domain.TimelineEvent

	subEvent := func(loc []int, subtype, defaultClock, notes string) {
		c := clauseAt(r.desc, loc[0])
		at := utils.Stamp(r.date, defaultClock)
		if clock, ok := firstClockIn(clocks, c.start, c.end); ok {
			at = utils.Stamp(r.date, clock)
		}
		oz := parseNumber(r.desc[loc[2]:loc[3]])
		events = append(events, withMeasurement(r.event(at, subtype, notes), Measurement{Value: oz, Units: unitsOunces}))
	}

	if loc := plainWaterExpr.FindStringSubmatchIndex(r.desc); loc != nil {
		oz := r.desc[loc[2]:loc[3]]
		subEvent(loc, "plain_water", r.rules.Times.PlainWater, oz+" oz plain water")
	}
	if loc := bottleExpr.FindStringSubmatchIndex(r.desc); loc != nil {
		c := clauseAt(r.desc, loc[0])
		notes := strings.TrimSpace(r.desc[loc[0]:c.end])
		subEvent(loc, "bottle", r.rules.Times.Bottle, notes)
	}
	if len(events) > 0 {
		return events
	}

	e := r.event(r.at(r.rules.Times.Hydration), r.class.Subtype, r.desc)
	if m, ok := TotalOunces(r.desc); ok {
		e = withMeasurement(e, m)
	}
	return []domain.TimelineEvent{e}
}

func buildMeal(r *rowInput) []domain.TimelineEvent {
	return []domain.TimelineEvent{
		r.event(r.at(r.rules.mealTime(r.class.Subtype)), r.class.Subtype, r.desc),
	}
}

func buildCaffeine(r *rowInput) []domain.TimelineEvent {
	e := r.event(r.at(r.rules.Times.Caffeine), r.class.Subtype, r.desc)
	text := r.desc
	if strings.Contains(strings.ToLower(r.field), "coffee") {
		text += " coffee"
	}
	if m, ok := r.measure(text); ok {
		e = withMeasurement(e, m)
	}
	return []domain.TimelineEvent{e}
}

// buildSupplements emits one event per recognized name. A row naming none of
// them is kept as a single general supplement event
func buildSupplements(r *rowInput) []domain.TimelineEvent {
	mentions := findSubstances(r.desc, r.rules.Substances)
	if len(mentions) == 0 {
		e := r.event(r.at(r.rules.Times.Supplement), r.class.Subtype, r.desc)
		if m, ok := r.measure(r.desc); ok {
			e = withMeasurement(e, m)
		}
		return []domain.TimelineEvent{e}
	}

	clocks := findClocks(r.desc)
	events := make([]domain.TimelineEvent, 0, len(mentions))
	for _, m := range mentions {
		c := clauseAt(r.desc, m.pos)
		at := r.at(r.rules.Times.Supplement)
		if clock, ok := firstClockIn(clocks, c.start, c.end); ok {
			at = utils.Stamp(r.date, clock)
		}
		notes := strings.TrimSpace(r.desc[c.start:c.end])
		events = append(events, substanceEvent(r.desc, m, at, notes))
	}
	return events
}

func buildBodycare(r *rowInput) []domain.TimelineEvent {
	e := r.event(r.at(r.rules.Times.Bodycare), r.class.Subtype, r.desc)
	if m, ok := r.measure(r.desc); ok {
		e = withMeasurement(e, m)
	}
	return []domain.TimelineEvent{e}
}

func buildStress(r *rowInput) []domain.TimelineEvent {
	e := r.event(r.at(r.rules.Times.Stress), r.class.Subtype, r.desc)
	if m, ok := r.measure(r.desc); ok {
		e = withMeasurement(e, m)
	}
	return []domain.TimelineEvent{e}
}

func buildPain(r *rowInput) []domain.TimelineEvent {
	e := r.event(r.at(r.rules.Times.Pain), r.class.Subtype, r.desc)
	if m, ok := r.measure(r.desc); ok {
		e = withMeasurement(e, m)
	}
	return []domain.TimelineEvent{e}
}

func buildActivity(r *rowInput) []domain.TimelineEvent {
	return []domain.TimelineEvent{r.event(r.at(r.rules.Times.Activity), r.class.Subtype, r.desc)}
}

func buildNote(r *rowInput) []domain.TimelineEvent {
	return []domain.TimelineEvent{r.event(r.at(r.rules.Times.Note), r.class.Subtype, r.class.Notes)}
}
