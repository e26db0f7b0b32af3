package ports

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// NodeKind values as reported by the host scene graph.
const (
	NodeInstance   = "INSTANCE"
	NodeComponent  = "COMPONENT"
	NodeVariantSet = "COMPONENT_SET"
)

// NodeRef is a read-only handle to a scene node. Handles are resolved through
// the Scene on every use; no owning reference is held across suspension points.
type NodeRef struct {
	ID   string
	Name string
	Kind string
}

// PropertyKindVariant marks properties whose legal values are enumerated by
// the component family's schema. Other kinds (text, boolean) exist on the host
// but are never populated from variant metadata.
const PropertyKindVariant = "VARIANT"

// PropertyDef is one declared property on a component family.
type PropertyDef struct {
	Name    string
	Kind    string
	Options []string
}

// ComponentRef describes an instance's underlying definition. VariantSet is
// nil for standalone components.
type ComponentRef struct {
	ID         string
	Name       string
	VariantSet *VariantSetRef
}

// VariantSetRef describes the variant set a definition belongs to, including
// its declared property definitions.
type VariantSetRef struct {
	ID         string
	Name       string
	Properties []PropertyDef
}

// Scene is the host scene-graph boundary: selection, node tree, component
// metadata, and the two mutations the system performs (property binding and
// reaction installation). All calls are suspend points; the host may take
// arbitrarily long and no timeouts are imposed here.
type Scene interface {
	// Selection returns the currently selected nodes.
	Selection(ctx context.Context) ([]NodeRef, error)

	// Children returns a node's direct children in scene order.
	Children(ctx context.Context, nodeID string) ([]NodeRef, error)

	// MainComponent resolves an instance's underlying definition.
	// Returns (nil, nil) when the definition no longer exists; callers skip
	// such instances silently.
	MainComponent(ctx context.Context, instanceID string) (*ComponentRef, error)

	// Properties returns the instance's current property-value snapshot.
	Properties(ctx context.Context, instanceID string) (map[string]string, error)

	// BindProperty makes the given managed variable the live source of the
	// instance's property value.
	BindProperty(ctx context.Context, instanceID, property, variableID string) error

	// SetReactions replaces the instance's installed reactions. An empty
	// slice clears them.
	SetReactions(ctx context.Context, instanceID string, reactions []domain.Reaction) error

	// AllReactions enumerates every installed reaction across the whole
	// scene. Used by the sweep to find variables still in use.
	AllReactions(ctx context.Context) ([]domain.Reaction, error)
}

// Watchable is implemented by scenes that can signal selection changes.
// The channel carries no payload; a signal only means "re-analyze".
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
