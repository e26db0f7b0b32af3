/*
Package domain contains the core domain models for the Tendril engine.

It defines the entities of the interaction pipeline: Groups of component
instances, authored Interactions with their conditional rules, the compiled
TargetTable, and the materialized Variables and Reactions. This package is
kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Group: sibling instances sharing one component family (variant set or
    standalone definition), with the union of their variant properties.
  - Interaction: one authored activation rule set for a Group (primary
    transition plus conditional overrides).
  - TargetTable: the compiler's per-instance target-state matrix.
  - Variable / Reaction: the persisted image of a compiled interaction.
*/
package domain
