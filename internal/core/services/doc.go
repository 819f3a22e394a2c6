// Package services contains the core pipeline logic: the retrain
// orchestrator, the topic registry that reconciles run-local clusters onto
// durable topic identities, the temporal aggregator and the retrain
// scheduler. Services depend only on domain types and ports.
package services
