// Package config loads the four YAML documents the scheduler runs
// against: setup, executors, day-offs, and dependencies.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/me/gowe/pkg/model"
)

// Setup is the sprint identity, window, and upstream connection
// details for one scheduling run.
type Setup struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Year      string `yaml:"year"`
	Quarter   string `yaml:"quarter"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Timezone  string `yaml:"timezone"`
	AreaPath  string `yaml:"area_path"`
	Tracker   struct {
		Organization string `yaml:"organization"`
		Project      string `yaml:"project"`
		TokenEnv     string `yaml:"token_env"`
	} `yaml:"tracker"`
	OutputDir string `yaml:"output_dir"`
}

// LoadSetup parses a setup document and resolves the Sprint it
// describes. The tracker personal access token is never embedded in
// the document itself; it is read from the environment variable named
// by tracker.token_env, so it never appears in logs or the report.
func LoadSetup(data []byte) (model.Sprint, string, error) {
	var doc Setup
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Sprint{}, "", &model.ConfigError{Doc: "setup", Message: err.Error()}
	}

	start, err := model.ParseDate(doc.StartDate)
	if err != nil {
		return model.Sprint{}, "", &model.ConfigError{Doc: "setup", Field: "start_date", Message: err.Error()}
	}
	end, err := model.ParseDate(doc.EndDate)
	if err != nil {
		return model.Sprint{}, "", &model.ConfigError{Doc: "setup", Field: "end_date", Message: err.Error()}
	}

	sprint := model.Sprint{
		ID:        doc.ID,
		Name:      doc.Name,
		Year:      doc.Year,
		Quarter:   doc.Quarter,
		StartDate: start,
		EndDate:   end,
		Timezone:  doc.Timezone,
		AreaPath:  doc.AreaPath,
	}
	if !sprint.Valid() {
		return model.Sprint{}, "", &model.ConfigError{Doc: "setup", Field: "start_date/end_date", Message: "start date must be on or before end date"}
	}

	token := ""
	if doc.Tracker.TokenEnv != "" {
		token = os.Getenv(doc.Tracker.TokenEnv)
		if token == "" {
			return model.Sprint{}, "", &model.ConfigError{Doc: "setup", Field: "tracker.token_env", Message: fmt.Sprintf("environment variable %s is unset", doc.Tracker.TokenEnv)}
		}
	}

	return sprint, token, nil
}

// TrackerOrg and TrackerProject are read straight off the raw Setup
// document, exposed separately from LoadSetup since the tracker
// client needs them alongside the resolved token.
func (s Setup) TrackerOrg() string     { return s.Tracker.Organization }
func (s Setup) TrackerProject() string { return s.Tracker.Project }

// ParseSetup is the lower-level counterpart to LoadSetup, returning the
// raw document before Sprint resolution, for callers that also need
// the tracker organization/project or output directory fields.
func ParseSetup(data []byte) (Setup, error) {
	var doc Setup
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Setup{}, &model.ConfigError{Doc: "setup", Message: err.Error()}
	}
	doc.Tracker.Organization = strings.TrimSpace(doc.Tracker.Organization)
	doc.Tracker.Project = strings.TrimSpace(doc.Tracker.Project)
	return doc, nil
}
