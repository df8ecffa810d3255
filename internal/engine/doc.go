// Package engine implements the route calculation engine.
//
// A calculation runs as a linear pipeline: the graph builder validates the
// route (duplicate ids, dangling edges, size ceiling, cycles), the scheduler
// produces a deterministic topological order, each node is evaluated by the
// evaluator registered for its technology category, and the aggregator folds
// every node result into a Summary.
//
// The engine is stateless and performs no I/O. The technology reference is
// passed into every call and is never modified, so one Engine can serve
// concurrent calculations.
package engine
