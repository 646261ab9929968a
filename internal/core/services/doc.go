// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The refresh engine lives here: SourceCache holds fetched repositories,
// RefreshOrchestrator runs batched sweeps into it, and RefreshScheduler
// triggers sweeps on a timer or on demand.
package services
