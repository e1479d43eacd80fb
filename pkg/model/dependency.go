package model

// Dependency is a prerequisite edge: Successor depends on Prerequisite
// completing first.
type Dependency struct {
	Successor    string `json:"successor"`
	Prerequisite string `json:"prerequisite"`
}
