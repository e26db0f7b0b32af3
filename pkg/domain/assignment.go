package domain

import "strings"

// ResetToInitial is the sentinel action that sends an instance back to the
// state it had when the interaction was compiled.
const ResetToInitial = "RESET_TO_INITIAL"

// Assignment is a parsed "prop=value" pair. The string form only exists at
// the protocol and storage boundary; everything internal works on this type.
type Assignment struct {
	Property string
	Value    string
}

// ParseAssignment splits a "prop=value" string once, at the boundary.
// The ok flag is false when the separator is missing or the property is empty;
// callers treat such strings as inert rather than as errors.
func ParseAssignment(s string) (Assignment, bool) {
	prop, value, found := strings.Cut(s, "=")
	if !found || prop == "" {
		return Assignment{}, false
	}
	return Assignment{Property: prop, Value: value}, true
}

// String re-serializes the assignment for storage and messages.
func (a Assignment) String() string {
	return a.Property + "=" + a.Value
}

// MatchesProperty reports whether the assignment targets the given property,
// ignoring case. Variant property names are matched case-insensitively
// throughout.
func (a Assignment) MatchesProperty(property string) bool {
	return strings.EqualFold(a.Property, property)
}

// RuleAction is the right-hand side of a conditional rule: either a concrete
// assignment or a reset back to the captured original state.
type RuleAction struct {
	Reset      bool
	Assignment Assignment
}

// ParseRuleAction interprets a rule action string. Reset sentinel first, then
// assignment form. The ok flag is false for malformed actions, which are inert.
func ParseRuleAction(s string) (RuleAction, bool) {
	if s == ResetToInitial {
		return RuleAction{Reset: true}, true
	}
	assign, ok := ParseAssignment(s)
	if !ok {
		return RuleAction{}, false
	}
	return RuleAction{Assignment: assign}, true
}
