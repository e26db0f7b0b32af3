package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

type sceneNode struct {
	ref        ports.NodeRef
	children   []string
	component  string            // definition id, instances only
	properties map[string]string // static values
	bindings   map[string]string // property -> variable id
	reactions  []domain.Reaction
}

// Scene implements ports.Scene and ports.Watchable in memory. It models the
// host document: a node tree, component definitions with variant sets, a
// selection, and live property bindings resolved through the variable store.
// Safe for concurrent use.
type Scene struct {
	mu         sync.RWMutex
	nodes      map[string]*sceneNode
	components map[string]ports.ComponentRef
	selection  []string
	vars       *Variables
	watchers   []chan struct{}
}

// NewScene creates an empty scene. Bound properties resolve through vars.
func NewScene(vars *Variables) *Scene {
	return &Scene{
		nodes:      make(map[string]*sceneNode),
		components: make(map[string]ports.ComponentRef),
		vars:       vars,
	}
}

// DefineComponent registers a component definition.
func (s *Scene) DefineComponent(ref ports.ComponentRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components[ref.ID] = ref
}

// AddNode adds a plain node under the given parent (empty parent = root).
func (s *Scene) AddNode(id, name, kind, parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addNodeLocked(id, name, kind, parentID, "", nil)
}

// AddInstance adds an instance node referencing a component definition, with
// its current property values.
func (s *Scene) AddInstance(id, name, parentID, componentID string, properties map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addNodeLocked(id, name, ports.NodeInstance, parentID, componentID, properties)
}

func (s *Scene) addNodeLocked(id, name, kind, parentID, componentID string, properties map[string]string) {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	s.nodes[id] = &sceneNode{
		ref:        ports.NodeRef{ID: id, Name: name, Kind: kind},
		component:  componentID,
		properties: props,
		bindings:   make(map[string]string),
	}
	if parent, ok := s.nodes[parentID]; ok {
		parent.children = append(parent.children, id)
	}
}

// Select replaces the current selection.
func (s *Scene) Select(nodeIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = append([]string(nil), nodeIDs...)
}

// SignalSelectionChange notifies all watchers.
func (s *Scene) SignalSelectionChange() {
	s.mu.RLock()
	watchers := append([]chan struct{}(nil), s.watchers...)
	s.mu.RUnlock()
	for _, ch := range watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Click fires the ON_CLICK reactions installed on an instance, applying their
// variable assignments atomically. Bound properties pick the new values up on
// the next read.
func (s *Scene) Click(ctx context.Context, instanceID string) error {
	s.mu.RLock()
	node, ok := s.nodes[instanceID]
	if !ok {
		s.mu.RUnlock()
		return fmt.Errorf("node %s not found", instanceID)
	}
	reactions := append([]domain.Reaction(nil), node.reactions...)
	s.mu.RUnlock()

	for _, reaction := range reactions {
		if reaction.Trigger != domain.TriggerClick {
			continue
		}
		for _, action := range reaction.Actions {
			if err := s.vars.SetValue(ctx, action.VariableID, action.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Selection implements ports.Scene.
func (s *Scene) Selection(ctx context.Context) ([]ports.NodeRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]ports.NodeRef, 0, len(s.selection))
	for _, id := range s.selection {
		if node, ok := s.nodes[id]; ok {
			refs = append(refs, node.ref)
		}
	}
	return refs, nil
}

// Children implements ports.Scene.
func (s *Scene) Children(ctx context.Context, nodeID string) ([]ports.NodeRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("node %s not found", nodeID)
	}
	refs := make([]ports.NodeRef, 0, len(node.children))
	for _, childID := range node.children {
		if child, ok := s.nodes[childID]; ok {
			refs = append(refs, child.ref)
		}
	}
	return refs, nil
}

// MainComponent implements ports.Scene. Returns (nil, nil) for instances whose
// definition was deleted or never registered.
func (s *Scene) MainComponent(ctx context.Context, instanceID string) (*ports.ComponentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[instanceID]
	if !ok {
		return nil, fmt.Errorf("node %s not found", instanceID)
	}
	comp, ok := s.components[node.component]
	if !ok {
		return nil, nil
	}
	return &comp, nil
}

// Properties implements ports.Scene. Bound properties resolve through their
// variable; unbound ones return the static value.
func (s *Scene) Properties(ctx context.Context, instanceID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[instanceID]
	if !ok {
		return nil, fmt.Errorf("node %s not found", instanceID)
	}
	snapshot := make(map[string]string, len(node.properties))
	for k, v := range node.properties {
		snapshot[k] = v
	}
	for property, variableID := range node.bindings {
		if value, ok := s.vars.Value(variableID); ok {
			snapshot[property] = value
		}
	}
	return snapshot, nil
}

// BindProperty implements ports.Scene.
func (s *Scene) BindProperty(ctx context.Context, instanceID, property, variableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[instanceID]
	if !ok {
		return fmt.Errorf("node %s not found", instanceID)
	}
	node.bindings[property] = variableID
	return nil
}

// SetReactions implements ports.Scene.
func (s *Scene) SetReactions(ctx context.Context, instanceID string, reactions []domain.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[instanceID]
	if !ok {
		return fmt.Errorf("node %s not found", instanceID)
	}
	node.reactions = append([]domain.Reaction(nil), reactions...)
	return nil
}

// AllReactions implements ports.Scene.
func (s *Scene) AllReactions(ctx context.Context) ([]domain.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.Reaction
	for _, node := range s.nodes {
		all = append(all, node.reactions...)
	}
	return all, nil
}

// Reactions returns the reactions installed on one instance. Test helper.
func (s *Scene) Reactions(instanceID string) []domain.Reaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[instanceID]
	if !ok {
		return nil
	}
	return append([]domain.Reaction(nil), node.reactions...)
}

// Watch implements ports.Watchable.
func (s *Scene) Watch(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	ch := make(chan struct{}, 1)
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}()
	return ch, nil
}
