/*
Package tendril compiles click-driven state transitions across groups of
repeated, variant-bearing component instances into persisted state variables
and activation reactions.

A designer declares one primary transition plus conditional overrides for a
group of sibling instances; the engine deterministically derives, for every
instance, the state it must move to when any one instance is activated, and
materializes that as idempotently recreatable host variables and click
reactions.

The host environment (scene graph, variable store, client storage) is reached
only through the interfaces in pkg/ports, so the engine runs unchanged against
a real host bridge, the in-memory fake in pkg/adapters/memory, or a YAML scene
fixture loaded by pkg/adapters/yamlscene.
*/
package tendril
