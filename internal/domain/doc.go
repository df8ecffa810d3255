// Package domain defines the core types for the BioRoute biogas route builder.
//
// This package holds the value objects shared by the calculation engine, the
// services and the HTTP layer. It has no database or network dependencies.
//
// # Technology Catalog
//
// Technology describes one building block (a feedstock, a digester, an
// upgrading unit...) with its category, connection types, user-facing
// parameter descriptors and numeric defaults. Catalog is an immutable,
// versioned set of technologies keyed by id.
//
// # Routes
//
// Route is the user-assembled graph: RouteNode instances reference a
// technology by id and carry parameter overrides, RouteEdge connects two
// nodes by id.
//
// # Scenarios and Templates
//
// Scenario is a persisted route with its last calculated results and a short
// share token. Template is a pre-built route shipped with the catalog.
package domain
