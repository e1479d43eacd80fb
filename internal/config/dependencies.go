package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/me/gowe/pkg/model"
)

// DependenciesDoc maps a successor task id to the prerequisite task
// ids it depends on.
type DependenciesDoc map[string][]string

// LoadDependencies parses a dependencies document into a flat
// Dependency edge list. Self-edges are rejected; duplicate
// prerequisites under the same successor are de-duplicated.
func LoadDependencies(data []byte) ([]model.Dependency, error) {
	var doc DependenciesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &model.ConfigError{Doc: "dependencies", Message: err.Error()}
	}

	successors := make([]string, 0, len(doc))
	for s := range doc {
		successors = append(successors, s)
	}
	sort.Strings(successors)

	var deps []model.Dependency
	for _, successor := range successors {
		seen := make(map[string]bool)
		prereqs := append([]string(nil), doc[successor]...)
		sort.Strings(prereqs)
		for _, prereq := range prereqs {
			if prereq == successor {
				return nil, &model.ConfigError{Doc: "dependencies", Field: successor, Message: fmt.Sprintf("task %q cannot depend on itself", successor)}
			}
			if seen[prereq] {
				continue
			}
			seen[prereq] = true
			deps = append(deps, model.Dependency{Successor: successor, Prerequisite: prereq})
		}
	}
	return deps, nil
}
