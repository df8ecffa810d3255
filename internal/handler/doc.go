// Package handler implements HTTP request handlers for the bioroute API.
//
// # Handlers
//
// RouteHandler serves the technology catalog and templates, and calculates
// and validates routes.
//
// ScenarioHandler manages saved scenarios, share links, comparison and
// import/export.
//
// Middleware provides request logging, panic recovery and CORS support.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, kind, details} structure. Engine
// failures carry the error kind and the offending node or edge and use
// status 422.
package handler
