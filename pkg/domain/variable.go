package domain

import "fmt"

// CollectionName is the managed variable namespace. Only variables inside this
// collection are ever created, enumerated, or removed by the system.
const CollectionName = "state-machine"

// VariableKind is the host value type of a managed variable.
type VariableKind string

const (
	VariableString  VariableKind = "STRING"
	VariableBoolean VariableKind = "BOOLEAN"
)

// Variable is a handle to one managed host variable. Ownership is recoverable
// from the name alone: every variable name starts with the id of the
// interaction that created it.
type Variable struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Kind  VariableKind `json:"kind"`
	Value string       `json:"value,omitempty"`
}

// PrimaryVariableName names the boolean marker created for an interaction's
// primary transition.
func PrimaryVariableName(interactionID string) string {
	return interactionID + "_primary"
}

// ConditionalVariableName names the boolean marker for conditional rule n.
func ConditionalVariableName(interactionID string, n int) string {
	return fmt.Sprintf("%s_conditional_%d", interactionID, n)
}

// InstanceVariableName names the string state variable owned by instance i.
func InstanceVariableName(interactionID string, i int, property string) string {
	return fmt.Sprintf("%s_instance_%d_%s", interactionID, i, property)
}
