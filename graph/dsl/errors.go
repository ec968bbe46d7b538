package dsl

import "strings"

// ValidationError names the exact field or location that violated one of
// spec §4.D's nine structural rules.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "dsl: " + e.Field + ": " + e.Message
}

// ValidationErrors aggregates every rule violation found in one pass over
// a document — the loader performs all nine checks before instantiating
// any agent, so a caller with a malformed file sees every problem at
// once rather than fixing them one at a time.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return strings.Join(parts, "; ")
}
