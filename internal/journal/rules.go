package journal

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

// DefaultCoffeeEstimateMg is the caffeine assumed for a coffee with no stated dose
const DefaultCoffeeEstimateMg = 120.0

// DefaultTimes holds the clock times used when a row carries no explicit time.
// All values are estimates, "HH:MM"
type DefaultTimes struct {
	Bedtime    string `yaml:"bedtime"`
	Asleep     string `yaml:"asleep"`
	Wake       string `yaml:"wake"`
	PlainWater string `yaml:"plain_water"`
	Bottle     string `yaml:"bottle"`
	Hydration  string `yaml:"hydration"`
	Breakfast  string `yaml:"breakfast"`
	Lunch      string `yaml:"lunch"`
	Dinner     string `yaml:"dinner"`
	Snack      string `yaml:"snack"`
	Meal       string `yaml:"meal"`
	Caffeine   string `yaml:"caffeine"`
	Supplement string `yaml:"supplement"`
	Bodycare   string `yaml:"bodycare"`
	Stress     string `yaml:"stress"`
	Pain       string `yaml:"pain"`
	Activity   string `yaml:"activity"`
	Note       string `yaml:"note"`
}

// Substance is a recognized supplement or medication name
type Substance struct {
	// Key is matched case-insensitively against descriptions
	Key   string           `yaml:"key"`
	Name  string           `yaml:"name"`
	Kind  domain.EventType `yaml:"kind"`
	Dose  float64          `yaml:"dose"`
	Units string           `yaml:"units"`
}

// RuleTable collects every estimate the event builders fall back to
type RuleTable struct {
	Times            DefaultTimes `yaml:"times"`
	CoffeeEstimateMg float64      `yaml:"coffee_estimate_mg"`
	PainLocation     string       `yaml:"pain_location"`
	Substances       []Substance  `yaml:"substances"`
}

// DefaultRuleTable returns the built-in estimates
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Times: DefaultTimes{
			Bedtime:    "22:00",
			Asleep:     "22:30",
			Wake:       "06:00",
			PlainWater: "05:40",
			Bottle:     "06:45",
			Hydration:  "12:00",
			Breakfast:  "07:30",
			Lunch:      "12:30",
			Dinner:     "18:30",
			Snack:      "15:00",
			Meal:       "12:00",
			Caffeine:   "07:00",
			Supplement: "07:05",
			Bodycare:   "07:00",
			Stress:     "13:00",
			Pain:       "12:00",
			Activity:   "19:00",
			Note:       "12:00",
		},
		CoffeeEstimateMg: DefaultCoffeeEstimateMg,
		PainLocation:     "General",
		Substances: []Substance{
			{Key: "riboflavin", Name: "Riboflavin", Kind: domain.EventSupplement, Dose: 400, Units: "mg"},
			{Key: "magnesium", Name: "Magnesium glycinate", Kind: domain.EventSupplement, Dose: 135, Units: "mg"},
			{Key: "fish oil", Name: "Fish-oil", Kind: domain.EventSupplement},
			{Key: "unisom", Name: "Unisom", Kind: domain.EventMed, Dose: 12.5, Units: "mg"},
		},
	}
}

// LoadRuleTable overlays the YAML file at path onto the defaults.
// An empty path returns the defaults
func LoadRuleTable(path string) (*RuleTable, error) {
	rules := DefaultRuleTable()
	if path == "" {
		return rules, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "INVALID_RULES", "rule table cannot be read").
			WithContext("path", path)
	}
	if err := yaml.Unmarshal(b, rules); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "INVALID_RULES", "rule table is not valid YAML").
			WithContext("path", path)
	}
	for i := range rules.Substances {
		rules.Substances[i].Key = strings.ToLower(strings.TrimSpace(rules.Substances[i].Key))
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate checks every clock time and substance entry
func (r *RuleTable) Validate() error {
	clocks := map[string]string{
		"bedtime":     r.Times.Bedtime,
		"asleep":      r.Times.Asleep,
		"wake":        r.Times.Wake,
		"plain_water": r.Times.PlainWater,
		"bottle":      r.Times.Bottle,
		"hydration":   r.Times.Hydration,
		"breakfast":   r.Times.Breakfast,
		"lunch":       r.Times.Lunch,
		"dinner":      r.Times.Dinner,
		"snack":       r.Times.Snack,
		"meal":        r.Times.Meal,
		"caffeine":    r.Times.Caffeine,
		"supplement":  r.Times.Supplement,
		"bodycare":    r.Times.Bodycare,
		"stress":      r.Times.Stress,
		"pain":        r.Times.Pain,
		"activity":    r.Times.Activity,
		"note":        r.Times.Note,
	}
	for name, clock := range clocks {
		if !utils.IsClock(clock) {
			return invalidRules(fmt.Sprintf("times.%s: %q is not an HH:MM clock time", name, clock))
		}
	}
	if r.CoffeeEstimateMg < 0 {
		return invalidRules("coffee_estimate_mg must not be negative")
	}
	for i, s := range r.Substances {
		switch {
		case s.Key == "" || s.Name == "":
			return invalidRules(fmt.Sprintf("substances[%d]: key and name are required", i))
		case s.Kind != domain.EventSupplement && s.Kind != domain.EventMed:
			return invalidRules(fmt.Sprintf("substances[%d]: kind must be supplement or med, got %q", i, s.Kind))
		case s.Dose < 0:
			return invalidRules(fmt.Sprintf("substances[%d]: dose must not be negative", i))
		case s.Dose > 0 && s.Units == "":
			return invalidRules(fmt.Sprintf("substances[%d]: dose needs units", i))
		}
	}
	return nil
}

func invalidRules(msg string) error {
	return apperrors.New(apperrors.ErrorTypeValidation, "INVALID_RULES", msg)
}

// mealTime returns the default clock for a meal subtype
func (r *RuleTable) mealTime(subtype string) string {
	switch subtype {
	case "breakfast":
		return r.Times.Breakfast
	case "lunch":
		return r.Times.Lunch
	case "dinner":
		return r.Times.Dinner
	case "snack":
		return r.Times.Snack
	default:
		return r.Times.Meal
	}
}

// medication returns the med-kind substance mentioned in text, if any
func (r *RuleTable) medication(text string) (Substance, bool) {
	lower := strings.ToLower(text)
	for _, s := range r.Substances {
		if s.Kind == domain.EventMed && strings.Contains(lower, s.Key) {
			return s, true
		}
	}
	return Substance{}, false
}
