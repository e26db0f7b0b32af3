package domain

// TriggerClick is the only trigger kind the system installs.
const TriggerClick = "ON_CLICK"

// SetVariable assigns a value to a managed variable when a reaction fires.
type SetVariable struct {
	VariableID string `json:"variableId"`
	Value      string `json:"value"`
}

// Reaction is the derived effect list installed on one instance. It is fully
// recomputed on every compile, never partially patched. An empty Actions list
// is a recorded but inert click target (no resolvable variant property).
type Reaction struct {
	Trigger string        `json:"trigger"`
	Actions []SetVariable `json:"actions"`
}

// TargetTable is the compiler's output for one group: Original[j] is instance
// j's property value captured before any mutation, and Targets[i][j] is the
// value instance j's variable receives when instance i is activated.
// Targets[i][i] is always the primary transition's value.
type TargetTable struct {
	Property string
	Original []string
	Targets  [][]string
}
