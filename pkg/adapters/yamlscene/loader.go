// Package yamlscene loads a scene document from YAML into the in-memory host
// adapter. It exists so demos and the CLI can drive the engine against a real
// looking document without a live host.
package yamlscene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/ports"
)

// Document is the YAML shape of a scene file.
type Document struct {
	Selection  []string        `yaml:"selection"`
	Components []ComponentDef  `yaml:"components"`
	VariantSet map[string]*Set `yaml:"variantSets"`
	Nodes      []Node          `yaml:"nodes"`
}

// ComponentDef declares a component definition, optionally belonging to a
// variant set.
type ComponentDef struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	VariantSet string `yaml:"variantSet"`
}

// Set declares a variant set and its property definitions.
type Set struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties"`
}

// Property declares one property of a variant set. Kind defaults to VARIANT.
type Property struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Options []string `yaml:"options"`
}

// Node is one entry of the node tree. Nodes with a component reference become
// instances; Kind defaults to FRAME for the rest.
type Node struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind"`
	Component  string            `yaml:"component"`
	Properties map[string]string `yaml:"properties"`
	Children   []Node            `yaml:"children"`
}

// Load reads a YAML scene file and builds the memory host from it.
func Load(path string) (*memory.Scene, *memory.Variables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse builds the memory host from YAML bytes.
func Parse(data []byte) (*memory.Scene, *memory.Variables, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse scene document: %w", err)
	}

	vars := memory.NewVariables()
	scene := memory.NewScene(vars)

	sets := make(map[string]ports.VariantSetRef, len(doc.VariantSet))
	for id, set := range doc.VariantSet {
		if set == nil {
			return nil, nil, fmt.Errorf("variant set %s is empty", id)
		}
		ref := ports.VariantSetRef{ID: id, Name: set.Name}
		for _, prop := range set.Properties {
			kind := prop.Kind
			if kind == "" {
				kind = ports.PropertyKindVariant
			}
			ref.Properties = append(ref.Properties, ports.PropertyDef{
				Name:    prop.Name,
				Kind:    kind,
				Options: append([]string(nil), prop.Options...),
			})
		}
		sets[id] = ref
	}

	for _, comp := range doc.Components {
		if comp.ID == "" {
			return nil, nil, fmt.Errorf("component %q has no id", comp.Name)
		}
		ref := ports.ComponentRef{ID: comp.ID, Name: comp.Name}
		if comp.VariantSet != "" {
			set, ok := sets[comp.VariantSet]
			if !ok {
				return nil, nil, fmt.Errorf("component %s references unknown variant set %s", comp.ID, comp.VariantSet)
			}
			ref.VariantSet = &set
		}
		scene.DefineComponent(ref)
	}

	for _, node := range doc.Nodes {
		if err := addNode(scene, node, ""); err != nil {
			return nil, nil, err
		}
	}

	if len(doc.Selection) > 0 {
		scene.Select(doc.Selection...)
	}
	return scene, vars, nil
}

func addNode(scene *memory.Scene, node Node, parentID string) error {
	if node.ID == "" {
		return fmt.Errorf("node %q has no id", node.Name)
	}
	if node.Component != "" {
		scene.AddInstance(node.ID, node.Name, parentID, node.Component, node.Properties)
	} else {
		kind := node.Kind
		if kind == "" {
			kind = "FRAME"
		}
		scene.AddNode(node.ID, node.Name, kind, parentID)
	}
	for _, child := range node.Children {
		if err := addNode(scene, child, node.ID); err != nil {
			return err
		}
	}
	return nil
}
