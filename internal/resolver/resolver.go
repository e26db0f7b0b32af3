// Package resolver canonicalizes user-chosen property names against a group's
// variant schema.
package resolver

import (
	"context"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
)

// Resolution is the outcome of matching a candidate property name against a
// group's declared variant properties.
type Resolution struct {
	// Property is the canonical (correctly-cased) name. Empty when not a
	// variant property.
	Property string

	// IsVariant reports whether the candidate denotes a true multi-value
	// variant property on the underlying definition.
	IsVariant bool
}

// Resolve inspects the first instance's definition family and scans its
// declared property definitions for a variant-kind property matching the
// candidate name case-insensitively.
//
// Variant schemas are assumed uniform across a group's instances, so only the
// first instance is consulted; instances that disagree compile against an
// empty current value for the resolved property.
func Resolve(ctx context.Context, scene ports.Scene, candidate string, group *domain.Group) (Resolution, error) {
	if len(group.Instances) == 0 {
		return Resolution{}, nil
	}

	comp, err := scene.MainComponent(ctx, group.Instances[0].NodeID)
	if err != nil {
		return Resolution{}, err
	}
	if comp == nil || comp.VariantSet == nil {
		return Resolution{}, nil
	}

	for _, def := range comp.VariantSet.Properties {
		if def.Kind != ports.PropertyKindVariant {
			continue
		}
		if def.Name == candidate || strings.EqualFold(def.Name, candidate) {
			return Resolution{Property: def.Name, IsVariant: true}, nil
		}
	}

	return Resolution{}, nil
}
