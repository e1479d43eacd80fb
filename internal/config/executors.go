package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/me/gowe/pkg/model"
)

// ExecutorsDoc maps a discipline name to the emails of the executors
// in its pool.
type ExecutorsDoc map[string][]string

// LoadExecutors parses an executors document into a flat, deterministically
// ordered Executor list. Unknown discipline keys are rejected.
func LoadExecutors(data []byte) ([]model.Executor, error) {
	var doc ExecutorsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &model.ConfigError{Doc: "executors", Message: err.Error()}
	}

	disciplines := make([]string, 0, len(doc))
	for d := range doc {
		disciplines = append(disciplines, d)
	}
	sort.Strings(disciplines)

	var executors []model.Executor
	for _, raw := range disciplines {
		d := model.Discipline(raw)
		if !d.Valid() {
			return nil, &model.ConfigError{Doc: "executors", Field: raw, Message: fmt.Sprintf("unknown discipline %q", raw)}
		}
		emails := append([]string(nil), doc[raw]...)
		sort.Strings(emails)
		for _, email := range emails {
			executors = append(executors, model.Executor{
				Email:      model.NormalizedEmail(email),
				Discipline: d,
			})
		}
	}
	return executors, nil
}
