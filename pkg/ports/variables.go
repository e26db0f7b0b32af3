package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// VariableStore is the host variable boundary, scoped to the managed
// collection (domain.CollectionName). The system never touches variables
// outside that namespace.
type VariableStore interface {
	// CreateString creates a string variable seeded with the initial value
	// and returns its handle.
	CreateString(ctx context.Context, name, initial string) (domain.Variable, error)

	// CreateBool creates a boolean marker variable.
	CreateBool(ctx context.Context, name string, initial bool) (domain.Variable, error)

	// SetValue assigns a managed variable. Values flow through here both when
	// the system seeds variables and when installed reactions fire.
	SetValue(ctx context.Context, variableID, value string) error

	// List enumerates every variable in the managed collection.
	List(ctx context.Context) ([]domain.Variable, error)

	// Remove deletes a managed variable by id.
	Remove(ctx context.Context, variableID string) error
}
