// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding backends, the numeric pipeline
// stages and the persistence stores. Core services depend on these
// interfaces, never on concrete adapters.
package driven
