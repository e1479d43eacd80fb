package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/me/gowe/pkg/model"
)

// DayOffEntry is one declared absence within a DayOffsDoc.
type DayOffEntry struct {
	Date   string `yaml:"date"`
	Period string `yaml:"period"`
}

// DayOffsDoc maps an executor email to the absences declared for them.
type DayOffsDoc map[string][]DayOffEntry

// LoadDayOffs parses a day-offs document into a flat DayOff list.
// Day-offs outside the sprint window are left for the Capacity Ledger
// to silently ignore; this loader only validates date and period
// syntax, not the window.
func LoadDayOffs(data []byte) ([]model.DayOff, error) {
	var doc DayOffsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &model.ConfigError{Doc: "day-offs", Message: err.Error()}
	}

	emails := make([]string, 0, len(doc))
	for e := range doc {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	var dayOffs []model.DayOff
	for _, email := range emails {
		normalized := model.NormalizedEmail(email)
		for _, entry := range doc[email] {
			date, err := model.ParseDate(entry.Date)
			if err != nil {
				return nil, &model.ConfigError{Doc: "day-offs", Field: email, Message: err.Error()}
			}
			period := model.DayOffPeriod(entry.Period)
			if !period.Valid() {
				return nil, &model.ConfigError{Doc: "day-offs", Field: email, Message: fmt.Sprintf("unknown period %q", entry.Period)}
			}
			dayOffs = append(dayOffs, model.DayOff{
				ExecutorEmail: normalized,
				Date:          date,
				Period:        period,
			})
		}
	}
	return dayOffs, nil
}
