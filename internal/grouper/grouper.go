// Package grouper scans a container's descendants and groups its component
// instances by their shared variant-set definition.
package grouper

import (
	"context"
	"log/slog"
	"sort"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Grouper walks the scene graph through the injected Scene port.
type Grouper struct {
	scene  ports.Scene
	logger *slog.Logger
}

// New creates a grouper. A nil logger falls back to no-op.
func New(scene ports.Scene, logger *slog.Logger) *Grouper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Grouper{scene: scene, logger: logger}
}

// FindNestedInstances collects every descendant instance of the container,
// container itself excluded. Depth-first over children, parents before
// children, siblings in scene order. Traversal descends into instances too.
func (g *Grouper) FindNestedInstances(ctx context.Context, containerID string) ([]ports.NodeRef, error) {
	var instances []ports.NodeRef

	var walk func(node ports.NodeRef) error
	walk = func(node ports.NodeRef) error {
		if node.Kind == ports.NodeInstance {
			instances = append(instances, node)
		}
		children, err := g.scene.Children(ctx, node.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	children, err := g.scene.Children(ctx, containerID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if err := walk(child); err != nil {
			return nil, err
		}
	}
	return instances, nil
}

// GroupInstances buckets instances by their shared variant set (or standalone
// definition), accumulating each group's variant property values. Groups come
// back in first-seen order. Instances whose definition cannot be resolved are
// skipped silently: they may reference deleted components.
func (g *Grouper) GroupInstances(ctx context.Context, instances []ports.NodeRef) ([]domain.Group, error) {
	byKey := make(map[string]*domain.Group)
	var order []string

	for _, ref := range instances {
		comp, err := g.scene.MainComponent(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			g.logger.Debug("skipping instance with unresolvable definition", "instance", ref.ID)
			continue
		}

		key, name := comp.ID, comp.Name
		if comp.VariantSet != nil {
			// All variants of one family merge into a single group.
			key, name = comp.VariantSet.ID, comp.VariantSet.Name
		}

		group, seen := byKey[key]
		if !seen {
			group = &domain.Group{ID: key, Name: name}
			byKey[key] = group
			order = append(order, key)
		}

		snapshot, err := g.scene.Properties(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		group.Instances = append(group.Instances, domain.Instance{
			NodeID:     ref.ID,
			Name:       ref.Name,
			Properties: snapshot,
		})

		if comp.VariantSet != nil {
			g.accumulate(group, comp.VariantSet, snapshot)
		}
	}

	groups := make([]domain.Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups, nil
}

// accumulate records property values for one instance. Declared variant
// definitions are walked in schema order so the result is deterministic;
// remaining snapshot-only properties are appended as empty-valued keys in
// sorted order.
func (g *Grouper) accumulate(group *domain.Group, set *ports.VariantSetRef, snapshot map[string]string) {
	declared := make(map[string]bool, len(set.Properties))
	for _, def := range set.Properties {
		declared[def.Name] = true
		if _, present := snapshot[def.Name]; !present {
			continue
		}
		if def.Kind != ports.PropertyKindVariant {
			group.EnsureProperty(def.Name)
			continue
		}
		for _, option := range def.Options {
			group.AddPropertyValue(def.Name, option)
		}
	}

	var extras []string
	for name := range snapshot {
		if !declared[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		group.EnsureProperty(name)
	}
}
