package domain

import "errors"

// ErrInteractionNotFound is returned when no interaction is stored for a group.
var ErrInteractionNotFound = errors.New("interaction not found")

// ErrNoSelection is returned when the scene selection is empty or has more
// than one node.
var ErrNoSelection = errors.New("select exactly one component instance")

// ErrNotInstance is returned when the selected node is not a component instance.
var ErrNotInstance = errors.New("selected element must be a component instance")

// ErrNoNestedInstances is returned when the selection holds no descendant
// instances to group.
var ErrNoNestedInstances = errors.New("no nested component instances found in selection")

// ErrPipelineBusy is returned when an authoring call overlaps a run already in
// flight. The pipeline is single-flight by contract, not by accident.
var ErrPipelineBusy = errors.New("another pipeline run is in flight")
