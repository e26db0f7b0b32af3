package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConditionalRule overrides the transition of siblings whose current value
// matches the condition. Condition and action use the "prop=value" wire form;
// the action may also be the ResetToInitial sentinel. Rules are restricted to
// the primary transition's property; anything else is inert.
type ConditionalRule struct {
	ID        int    `json:"id" mapstructure:"id"`
	Condition string `json:"condition" mapstructure:"condition"`
	Action    string `json:"action" mapstructure:"action"`
}

// NestedAction drives a different, non-sibling group from the same activation.
type NestedAction struct {
	Component string `json:"componentId" mapstructure:"componentId"`
	Action    string `json:"action" mapstructure:"action"`
}

// Interaction is one authored activation rule set for a group. At most one
// interaction is live per group: creating a new one supersedes and fully
// retires the previous one, state variables included.
type Interaction struct {
	ID               string            `json:"id" mapstructure:"id"`
	Component        string            `json:"componentId" mapstructure:"componentId"`
	PrimaryAction    string            `json:"primaryAction" mapstructure:"primaryAction"`
	ConditionalRules []ConditionalRule `json:"conditionalRules" mapstructure:"conditionalRules"`
	NestedActions    []NestedAction    `json:"nestedActions,omitempty" mapstructure:"nestedActions"`
}

// Primary parses the primary transition. Returns ok=false when the stored
// action is not a "prop=value" pair.
func (i *Interaction) Primary() (Assignment, bool) {
	return ParseAssignment(i.PrimaryAction)
}

// NestedID scopes a nested action's variables under a composite identity so
// they can be retired together with the parent interaction by prefix match.
func (i *Interaction) NestedID(targetGroupID string) string {
	return fmt.Sprintf("%s_nested_%s", i.ID, targetGroupID)
}

// NewInteractionID builds an interaction identity for a group. The timestamp
// plus random suffix guarantees no interaction id is ever a prefix of another
// interaction's ids, which the prefix-match cleanup depends on.
func NewInteractionID(now time.Time) string {
	return fmt.Sprintf("ixn_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
