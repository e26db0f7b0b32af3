/*
Package ports defines the boundary interfaces between the Tendril core and the
host environment.

The host owns the scene graph, the variable store, and the persistent client
storage; the core only reaches them through these interfaces. This keeps the
pipeline testable against in-memory fakes and decouples it from any concrete
host transport.
*/
package ports
