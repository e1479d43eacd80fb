// Package depgraph stores prerequisite edges between tasks and detects
// cycles among them.
package depgraph

import (
	"sort"

	"github.com/me/gowe/pkg/model"
)

// Graph is an adjacency mapping from a successor task id to the set of
// its prerequisite task ids, resolved against a known task set.
type Graph struct {
	prereqs map[string]map[string]bool
}

// Build resolves dependency edges against the given set of known task
// ids. An edge referencing an id outside taskIDs is dropped; dropped is
// called once per dropped edge so the caller can log a warning.
// Duplicate edges are idempotent.
func Build(taskIDs map[string]bool, deps []model.Dependency, dropped func(d model.Dependency)) *Graph {
	g := &Graph{prereqs: make(map[string]map[string]bool)}

	for _, d := range deps {
		if !taskIDs[d.Successor] || !taskIDs[d.Prerequisite] {
			if dropped != nil {
				dropped(d)
			}
			continue
		}
		set, ok := g.prereqs[d.Successor]
		if !ok {
			set = make(map[string]bool)
			g.prereqs[d.Successor] = set
		}
		set[d.Prerequisite] = true
	}

	return g
}

// Prerequisites returns the prerequisite task ids of taskID, sorted for
// deterministic iteration.
func (g *Graph) Prerequisites(taskID string) []string {
	set := g.prereqs[taskID]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nodeColor tracks DFS visitation state for iterative cycle detection.
type nodeColor int

const (
	white nodeColor = iota
	gray
	black
)

type frame struct {
	id   string
	next int
}

// DetectCycles returns the set of task ids that participate in any
// cycle, including self-loops. It uses an iterative, explicitly colored
// depth-first traversal so the diagnosis is total regardless of graph
// depth and does not depend on Go's call stack.
func (g *Graph) DetectCycles() map[string]bool {
	nodes := g.allNodes()
	color := make(map[string]nodeColor, len(nodes))
	cyclic := make(map[string]bool)

	for _, start := range nodes {
		if color[start] != white {
			continue
		}

		var stack []frame
		var path []string

		stack = append(stack, frame{id: start, next: 0})
		path = append(path, start)
		color[start] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			prereqs := g.Prerequisites(top.id)

			if top.next >= len(prereqs) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}

			next := prereqs[top.next]
			top.next++

			switch color[next] {
			case white:
				color[next] = gray
				stack = append(stack, frame{id: next, next: 0})
				path = append(path, next)
			case gray:
				idx := indexOf(path, next)
				for _, id := range path[idx:] {
					cyclic[id] = true
				}
			case black:
				// already fully explored, no new cycle through it
			}
		}
	}

	return cyclic
}

func (g *Graph) allNodes() []string {
	seen := make(map[string]bool)
	for successor, prereqs := range g.prereqs {
		seen[successor] = true
		for p := range prereqs {
			seen[p] = true
		}
	}
	nodes := make([]string, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	return nodes
}

func indexOf(path []string, id string) int {
	for i, p := range path {
		if p == id {
			return i
		}
	}
	return -1
}
