package domain

// Instance is one placed occurrence of a component inside the analyzed
// container. NodeID is an opaque handle into the host scene graph; the system
// never creates or destroys instances, it only reads and mutates their
// property bindings and reactions.
type Instance struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`

	// Properties is the property-value snapshot taken when the instance was
	// grouped. Compilation reads from this snapshot once, before any mutation.
	Properties map[string]string `json:"properties,omitempty"`
}

// Group is a set of sibling instances sharing one underlying component family:
// a variant set, or a standalone definition when no variant set exists.
type Group struct {
	// ID is the stable id of the shared variant set (preferred) or of the
	// standalone definition.
	ID   string `json:"id"`
	Name string `json:"name"`

	// Instances in scene order (depth-first, parents before children).
	Instances []Instance `json:"instances"`

	// PropertyNames preserves first-seen property order; Properties maps each
	// name to its legal values, deduplicated, in first-seen order. Non-variant
	// properties appear as keys with no values.
	PropertyNames []string            `json:"propertyNames,omitempty"`
	Properties    map[string][]string `json:"properties"`
}

// AddPropertyValue appends a legal value for a property, creating the key on
// first sight and skipping duplicates.
func (g *Group) AddPropertyValue(property, value string) {
	g.ensureProperty(property)
	for _, v := range g.Properties[property] {
		if v == value {
			return
		}
	}
	g.Properties[property] = append(g.Properties[property], value)
}

// EnsureProperty records a property key without any values. Used for
// non-variant properties seen on instances.
func (g *Group) EnsureProperty(property string) {
	g.ensureProperty(property)
}

func (g *Group) ensureProperty(property string) {
	if g.Properties == nil {
		g.Properties = make(map[string][]string)
	}
	if _, seen := g.Properties[property]; !seen {
		g.Properties[property] = nil
		g.PropertyNames = append(g.PropertyNames, property)
	}
}
