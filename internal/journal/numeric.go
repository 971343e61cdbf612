package journal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
)

const (
	unitsRating = "1-10"
	unitsOunces = "oz"
	unitsMg     = "mg"
)

var (
	ratingExpr = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)
	fogExpr    = regexp.MustCompile(`(?i)\bfog\s*(\d+(?:\.\d+)?)`)
	stressExpr = regexp.MustCompile(`(?i)\b(?:stress|anxiety)(?:\s+level)?\s*[:=]?\s*(\d+(?:\.\d+)?)`)
	ounceExpr  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*oz\b`)
	mgExpr     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mg\b`)
	doseExpr   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mg|g)\b`)
	clockAfter = regexp.MustCompile(`^\s*[:：]\s*\d{2}`)
)

// Measurement is an extracted quantity with its unit
type Measurement struct {
	Value float64
	Units string
}

func parseNumber(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// MaxRating returns the highest "N/10" rating in text
func MaxRating(text string) (Measurement, bool) {
	found := false
	var best float64
	for _, m := range ratingExpr.FindAllStringSubmatch(text, -1) {
		v := parseNumber(m[1])
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return Measurement{}, false
	}
	return Measurement{Value: best, Units: unitsRating}, true
}

// firstScale returns the first number captured by expr that is a 0-10
// rating rather than the hour of a clock time
func firstScale(expr *regexp.Regexp, text string) (float64, bool) {
	for _, m := range expr.FindAllStringSubmatchIndex(text, -1) {
		if clockAfter.MatchString(text[m[3]:]) {
			continue
		}
		v := parseNumber(text[m[2]:m[3]])
		if v <= 10 {
			return v, true
		}
	}
	return 0, false
}

// PainRating reads a pain or brain-fog rating: the highest "N/10", else "fog N"
func PainRating(text string) (Measurement, bool) {
	if m, ok := MaxRating(text); ok {
		return m, true
	}
	if v, ok := firstScale(fogExpr, text); ok {
		return Measurement{Value: v, Units: unitsRating}, true
	}
	return Measurement{}, false
}

// StressRating reads "N/10", else a number following "stress" or "anxiety"
func StressRating(text string) (Measurement, bool) {
	if m := ratingExpr.FindStringSubmatch(text); m != nil {
		return Measurement{Value: parseNumber(m[1]), Units: unitsRating}, true
	}
	if v, ok := firstScale(stressExpr, text); ok {
		return Measurement{Value: v, Units: unitsRating}, true
	}
	return Measurement{}, false
}

// TotalOunces sums every "N oz" occurrence in text
func TotalOunces(text string) (Measurement, bool) {
	matches := ounceExpr.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return Measurement{}, false
	}
	var total float64
	for _, m := range matches {
		total += parseNumber(m[1])
	}
	return Measurement{Value: total, Units: unitsOunces}, true
}

// Caffeine reads "N mg", else falls back to estimateMg when coffee is mentioned
func Caffeine(text string, estimateMg float64) (Measurement, bool) {
	if m := mgExpr.FindStringSubmatch(text); m != nil {
		return Measurement{Value: parseNumber(m[1]), Units: unitsMg}, true
	}
	if strings.Contains(strings.ToLower(text), "coffee") {
		return Measurement{Value: estimateMg, Units: unitsMg}, true
	}
	return Measurement{}, false
}

// Dose reads the first "N mg" or "N g" in text
func Dose(text string) (Measurement, bool) {
	m := doseExpr.FindStringSubmatch(text)
	if m == nil {
		return Measurement{}, false
	}
	return Measurement{Value: parseNumber(m[1]), Units: strings.ToLower(m[2])}, true
}

// ExtractValue applies the extraction policy for an event type.
// The second result is false when nothing was found; callers must not read that as zero
func ExtractValue(eventType domain.EventType, text string, rules *RuleTable) (Measurement, bool) {
	switch eventType {
	case domain.EventPain:
		return PainRating(text)
	case domain.EventStress:
		return StressRating(text)
	case domain.EventBodycare:
		return MaxRating(text)
	case domain.EventHydration:
		return TotalOunces(text)
	case domain.EventCaffeine:
		return Caffeine(text, rules.CoffeeEstimateMg)
	case domain.EventSupplement, domain.EventMed:
		return Dose(text)
	default:
		return Measurement{}, false
	}
}
