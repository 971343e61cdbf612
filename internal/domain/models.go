package domain

// EventType is the fixed vocabulary of timeline event categories
type EventType string

const (
	EventSleepNote  EventType = "sleep_note"
	EventHydration  EventType = "hydration"
	EventMeal       EventType = "meal"
	EventCaffeine   EventType = "caffeine"
	EventSupplement EventType = "supplement"
	EventMed        EventType = "med"
	EventBodycare   EventType = "bodycare"
	EventStress     EventType = "stress"
	EventPain       EventType = "pain"
	EventActivity   EventType = "activity"
	EventNote       EventType = "note"
)

// TimelineEvent represents one observed occurrence within a day
type TimelineEvent struct {
	Time    string    `json:"Time"` // Format: "YYYY-MM-DDTHH:MM"
	Type    EventType `json:"Type"`
	Subtype string    `json:"Subtype"`
	Notes   string    `json:"Notes"`
	Value   *float64  `json:"Value,omitempty"`
	Units   string    `json:"Units,omitempty"`
}

// HasValue reports whether a measurement was extracted for the event
func (e TimelineEvent) HasValue() bool {
	return e.Value != nil
}

// SleepWindow holds bed and wake clock times
type SleepWindow struct {
	Bed  string `json:"Bed"`  // Format: "HH:MM"
	Wake string `json:"Wake"` // Format: "HH:MM"
}

// Meal represents a meal summary entry
type Meal struct {
	Time    string `json:"Time"`
	Skipped bool   `json:"Skipped"`
	Notes   string `json:"Notes"`
}

// Medication represents a medication summary entry
type Medication struct {
	Time string `json:"Time"`
	Name string `json:"Name"`
	Dose string `json:"Dose"`
}

// PainEpisode represents a pain episode; Peak and End stay nil for single readings
type PainEpisode struct {
	Start     string    `json:"Start"`
	Peak      *string   `json:"Peak"`
	End       *string   `json:"End"`
	Location  string    `json:"Location"`
	Intensity []float64 `json:"Intensity"`
	Notes     string    `json:"Notes"`
}

// Reflection holds the free-form end of day reflection
type Reflection struct {
	Accomplishments string `json:"Accomplishments"`
	Bothering       string `json:"Bothering"`
	TomorrowPlan    string `json:"TomorrowPlan"`
}

// DayRecord is the aggregated log for one day-period
type DayRecord struct {
	Date           string            `json:"Date"`
	TimelineEvents []TimelineEvent   `json:"TimelineEvents"`
	SleepWindow    SleepWindow       `json:"SleepWindow"`
	CaffeineMg     float64           `json:"CaffeineMg"`
	HydrationOz    float64           `json:"HydrationOz"`
	StressLevel    *int              `json:"StressLevel"`
	StressNotes    string            `json:"StressNotes"`
	Meals          []Meal            `json:"Meals"`
	Medications    []Medication      `json:"Medications"`
	PainEpisodes   []PainEpisode     `json:"PainEpisodes"`
	Weather        map[string]string `json:"Weather"`
	Reflection     Reflection        `json:"Reflection"`
	Notes          string            `json:"Notes"`
}

// NewDayRecord creates an empty record for the given day
func NewDayRecord(date string) *DayRecord {
	return &DayRecord{
		Date:           date,
		TimelineEvents: []TimelineEvent{},
		Meals:          []Meal{},
		Medications:    []Medication{},
		PainEpisodes:   []PainEpisode{},
		Weather:        map[string]string{},
	}
}

// Row is one journal line: a field label and its description
type Row struct {
	Field       string
	Description string
}

// DayPeriod is one logical day's rows as read from the journal
type DayPeriod struct {
	// Label is the sheet name the rows came from
	Label string
	// Date is the day identifier, YYYY-MM-DD
	Date string
	Rows []Row
}

// Empty reports whether the period carries no usable rows
func (p DayPeriod) Empty() bool {
	for _, r := range p.Rows {
		if r.Field != "" || r.Description != "" {
			return false
		}
	}
	return true
}
