// Package discipline infers a task's discipline tag from its title and
// routes it to the matching pool of executors.
package discipline

import (
	"strings"

	"github.com/me/gowe/pkg/model"
)

const testPlanPhrase = "plano de testes"

// tag pairs a title substring with the discipline it denotes. Order is
// significant: matches are evaluated top to bottom and the first hit
// wins, mirroring the upstream board's own tag precedence ([QA] before
// [BE] before [FE] before DevOps).
type tag struct {
	substr string
	result model.Discipline
}

var tags = []tag{
	{"[qa]", model.QA},
	{"[be]", model.Backend},
	{"[fe]", model.Frontend},
	{"devops", model.DevOps},
}

// Classify infers a discipline from a task title by case-insensitive
// substring match. It returns model.Unknown when no tag matches.
func Classify(title string) model.Discipline {
	lower := strings.ToLower(title)
	for _, tg := range tags {
		if strings.Contains(lower, tg.substr) {
			return tg.result
		}
	}
	return model.Unknown
}

// IsTestPlan reports whether a title carries the "Plano de Testes"
// marker. The marker is only meaningful on a qa-discipline task.
func IsTestPlan(title string) bool {
	return strings.Contains(strings.ToLower(title), testPlanPhrase)
}

// Pool groups configured executors by discipline.
type Pool struct {
	byDiscipline map[model.Discipline][]model.Executor
}

// NewPool indexes executors by their configured discipline.
func NewPool(executors []model.Executor) *Pool {
	p := &Pool{byDiscipline: make(map[model.Discipline][]model.Executor)}
	for _, e := range executors {
		p.byDiscipline[e.Discipline] = append(p.byDiscipline[e.Discipline], e)
	}
	return p
}

// Members returns the executors in the given discipline, in configured
// order.
func (p *Pool) Members(d model.Discipline) []model.Executor {
	return p.byDiscipline[d]
}

// Find returns the executor with the given email, and whether it was
// found, regardless of discipline.
func (p *Pool) Find(email string) (model.Executor, bool) {
	target := model.NormalizedEmail(email)
	for _, members := range p.byDiscipline {
		for _, e := range members {
			if model.NormalizedEmail(e.Email) == target {
				return e, true
			}
		}
	}
	return model.Executor{}, false
}
