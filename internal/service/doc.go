// Package service implements business logic for the bioroute application.
//
// This package provides service layers that coordinate between the HTTP handlers,
// the calculation engine, the technology catalog and the repository layer.
//
// # Services
//
// RouteService calculates and validates routes against the current catalog
// snapshot and computes the route fingerprint used as calculation ETag.
//
// ScenarioService stores routes as named scenarios together with their last
// calculation, hands out share tokens, compares scenarios and imports or
// exports them via codec adapters.
//
// # Event System
//
// Scenario changes and catalog reloads are published on an EventBus and
// forwarded to connected clients via Server-Sent Events (SSE).
package service
