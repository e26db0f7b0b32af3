package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
)

// Variables implements ports.VariableStore in memory, scoped to the managed
// collection. Safe for concurrent use.
type Variables struct {
	mu   sync.RWMutex
	data map[string]*domain.Variable
	next int
}

// NewVariables creates an empty in-memory variable store.
func NewVariables() *Variables {
	return &Variables{data: make(map[string]*domain.Variable)}
}

// CreateString creates a string variable seeded with the initial value.
func (v *Variables) CreateString(ctx context.Context, name, initial string) (domain.Variable, error) {
	return v.create(name, domain.VariableString, initial)
}

// CreateBool creates a boolean marker variable.
func (v *Variables) CreateBool(ctx context.Context, name string, initial bool) (domain.Variable, error) {
	return v.create(name, domain.VariableBoolean, strconv.FormatBool(initial))
}

func (v *Variables) create(name string, kind domain.VariableKind, value string) (domain.Variable, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.next++
	variable := &domain.Variable{
		ID:    fmt.Sprintf("VariableID:%d", v.next),
		Name:  name,
		Kind:  kind,
		Value: value,
	}
	v.data[variable.ID] = variable
	return *variable, nil
}

// SetValue assigns a managed variable.
func (v *Variables) SetValue(ctx context.Context, variableID, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	variable, ok := v.data[variableID]
	if !ok {
		return fmt.Errorf("variable %s not found", variableID)
	}
	variable.Value = value
	return nil
}

// List enumerates the managed collection. Variables come back in creation
// order.
func (v *Variables) List(ctx context.Context) ([]domain.Variable, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.Variable, 0, len(v.data))
	for i := 1; i <= v.next; i++ {
		if variable, ok := v.data[fmt.Sprintf("VariableID:%d", i)]; ok {
			out = append(out, *variable)
		}
	}
	return out, nil
}

// Remove deletes a managed variable by id.
func (v *Variables) Remove(ctx context.Context, variableID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data, variableID)
	return nil
}

// Value returns a variable's current value. Test helper.
func (v *Variables) Value(variableID string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	variable, ok := v.data[variableID]
	if !ok {
		return "", false
	}
	return variable.Value, true
}
