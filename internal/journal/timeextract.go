package journal

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

// clockExpr matches "H:MM" / "HH:MM" with an ASCII or full-width colon.
// Hour and minute ranges are not validated
var clockExpr = regexp.MustCompile(`(\d{1,2})\s*[:：]\s*(\d{2})`)

type clockMatch struct {
	start, end int
	clock      string
}

func findClocks(text string) []clockMatch {
	idx := clockExpr.FindAllStringSubmatchIndex(text, -1)
	out := make([]clockMatch, 0, len(idx))
	for _, m := range idx {
		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute, _ := strconv.Atoi(text[m[4]:m[5]])
		out = append(out, clockMatch{
			start: m[0],
			end:   m[1],
			clock: fmt.Sprintf("%02d:%02d", hour, minute),
		})
	}
	return out
}

// ExtractTimes returns every clock time in text anchored to date, as
// "YYYY-MM-DDTHH:MM", in order of appearance
func ExtractTimes(text, date string) []string {
	clocks := findClocks(text)
	times := make([]string, 0, len(clocks))
	for _, c := range clocks {
		times = append(times, utils.Stamp(date, c.clock))
	}
	return times
}
