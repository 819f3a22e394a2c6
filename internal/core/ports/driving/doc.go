// Package driving provides interfaces through which external actors
// (CLI, scheduler, future API layers) invoke core services.
package driving
