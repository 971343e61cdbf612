package journal

import (
	"regexp"
	"strings"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

type sleepPhrase int

const (
	phraseInBed sleepPhrase = iota
	phraseAsleep
	phraseWake
)

var sleepPhraseExpr = regexp.MustCompile(`(?i)\bin bed\b|\basleep\b|\bslept\b|\bawoke\b|\bwoke\b|\bawake\b|\bwake\b|\bup\b`)

type sleepMarker struct {
	phrase sleepPhrase
	start  int
	end    int
	// clock is the first time after the phrase, before the next phrase and
	// within the same clause
	clock  string
	clause span
}

func classifyPhrase(s string) sleepPhrase {
	switch strings.ToLower(s) {
	case "in bed":
		return phraseInBed
	case "asleep", "slept":
		return phraseAsleep
	default:
		return phraseWake
	}
}

func sleepMarkers(desc string) []sleepMarker {
	clocks := findClocks(desc)
	locs := sleepPhraseExpr.FindAllStringIndex(desc, -1)
	markers := make([]sleepMarker, 0, len(locs))
	for i, loc := range locs {
		c := clauseAt(desc, loc[0])
		limit := c.end
		if i+1 < len(locs) && locs[i+1][0] < limit {
			limit = locs[i+1][0]
		}
		clock, _ := firstClockIn(clocks, loc[1], limit)
		markers = append(markers, sleepMarker{
			phrase: classifyPhrase(desc[loc[0]:loc[1]]),
			start:  loc[0],
			end:    loc[1],
			clock:  clock,
			clause: c,
		})
	}
	return markers
}

// buildSleep expands a sleep narrative into bedtime, asleep and wake events.
// A phrase that is absent yields no event. Every wake phrase with a time
// becomes restless_awake except the last one, which is the final wake
func buildSleep(r *rowInput) []domain.TimelineEvent {
	markers := sleepMarkers(r.desc)
	notesOf := func(m sleepMarker) string {
		return strings.TrimSpace(r.desc[m.clause.start:m.clause.end])
	}
	stamp := func(clock, fallback string) string {
		if clock == "" {
			clock = fallback
		}
		return utils.Stamp(r.date, clock)
	}

	var events []domain.TimelineEvent
	var wakes []sleepMarker
	haveBed, haveAsleep := false, false
	bedtime := ""

	for _, m := range markers {
		switch m.phrase {
		case phraseInBed:
			if haveBed {
				continue
			}
			haveBed = true
			bedtime = stamp(m.clock, r.rules.Times.Bedtime)
			events = append(events, r.event(bedtime, "bedtime", notesOf(m)))
		case phraseAsleep:
			if haveAsleep {
				continue
			}
			haveAsleep = true
			events = append(events, r.event(stamp(m.clock, r.rules.Times.Asleep), "asleep", notesOf(m)))
		case phraseWake:
			if m.clock != "" {
				wakes = append(wakes, m)
			}
		}
	}

	medTime := bedtime
	for _, med := range medicationMentions(r.desc, r.rules.Substances) {
		if medTime == "" {
			medTime = r.at(r.rules.Times.Bedtime)
		}
		events = append(events, substanceEvent(r.desc, med, medTime, "Bedtime dose"))
	}

	for i, w := range wakes {
		subtype := "restless_awake"
		if i == len(wakes)-1 {
			subtype = "wake"
		}
		events = append(events, r.event(utils.Stamp(r.date, w.clock), subtype, notesOf(w)))
	}
	return events
}
