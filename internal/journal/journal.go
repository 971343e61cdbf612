// Package journal turns free-text journal rows into typed timeline events and
// rolls a day's events up into a DayRecord
package journal

import (
	"strings"

	"github.com/vladimiradmaev/journal-timeline/internal/domain"
	apperrors "github.com/vladimiradmaev/journal-timeline/internal/errors"
	"github.com/vladimiradmaev/journal-timeline/internal/utils"
)

// Extractor runs the classification and extraction rules over journal rows
type Extractor struct {
	rules *RuleTable
}

// NewExtractor creates an Extractor; nil rules select DefaultRuleTable
func NewExtractor(rules *RuleTable) *Extractor {
	if rules == nil {
		rules = DefaultRuleTable()
	}
	return &Extractor{rules: rules}
}

// RowEvents builds the timeline events for one row. A row missing either its
// field or its description yields nothing
func (x *Extractor) RowEvents(date string, row domain.Row) []domain.TimelineEvent {
	field := strings.TrimSpace(row.Field)
	desc := strings.TrimSpace(row.Description)
	if field == "" || desc == "" {
		return nil
	}

	times := ExtractTimes(desc, date)
	if len(times) == 0 {
		times = ExtractTimes(field, date)
	}

	rule, class := classify(field, desc)
	r := &rowInput{
		field: field,
		desc:  desc,
		date:  date,
		times: times,
		class: class,
		rules: x.rules,
	}
	return rule.build(r)
}

// BuildDay classifies every row of the period and aggregates the result
func (x *Extractor) BuildDay(period domain.DayPeriod) (*domain.DayRecord, error) {
	if !utils.IsDate(period.Date) {
		return nil, apperrors.NewInvalidDateError(period.Date)
	}

	record := domain.NewDayRecord(period.Date)
	for _, row := range period.Rows {
		record.TimelineEvents = append(record.TimelineEvents, x.RowEvents(period.Date, row)...)
	}
	Aggregate(record, x.rules)
	return record, nil
}
