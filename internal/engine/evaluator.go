package engine

import (
	"fmt"

	"bioroute/internal/domain"
)

// Values holds the named numeric outputs of a node
type Values map[string]float64

// Input is everything an evaluator may read for one node
type Input struct {
	Tech   domain.Technology
	Params map[string]float64
	Merged Stream
}

// Evaluator computes the output stream and result values of one node.
// Implementations must be pure and must not modify Input.
type Evaluator interface {
	Evaluate(in Input) (Stream, Values)
}

// EvaluatorFunc adapts a function to the Evaluator interface
type EvaluatorFunc func(in Input) (Stream, Values)

// Evaluate calls f(in)
func (f EvaluatorFunc) Evaluate(in Input) (Stream, Values) {
	return f(in)
}

// Registry maps category tags to evaluators. Categories without an
// evaluator fall back to pass-through.
type Registry struct {
	evaluators map[domain.Category]Evaluator
	fallback   Evaluator
}

// NewRegistry creates an empty registry with the pass-through fallback
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[domain.Category]Evaluator),
		fallback:   PassThrough(),
	}
}

// DefaultRegistry returns a registry with the built-in evaluators
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.CategoryFeedstock, NewFeedstock(DefaultLiquidFeedstocks...))
	r.Register(domain.CategoryPretreatment, Pretreatment())
	r.Register(domain.CategoryDigester, Digester())
	r.Register(domain.CategoryUpgrading, Upgrading())
	r.Register(domain.CategoryEndUse, NewEndUse())
	r.Register(domain.CategoryByproduct, Byproduct())
	return r
}

// Register binds ev to category. It panics if the category is taken.
func (r *Registry) Register(category domain.Category, ev Evaluator) {
	if _, exists := r.evaluators[category]; exists {
		panic(fmt.Sprintf("evaluator for category '%s' already registered", category))
	}
	r.evaluators[category] = ev
}

// Lookup returns the evaluator for category, or the fallback
func (r *Registry) Lookup(category domain.Category) Evaluator {
	if ev, ok := r.evaluators[category]; ok {
		return ev
	}
	return r.fallback
}

// Has reports whether category has its own evaluator
func (r *Registry) Has(category domain.Category) bool {
	_, ok := r.evaluators[category]
	return ok
}

// PassThrough forwards the merged input stream with no values
func PassThrough() Evaluator {
	return EvaluatorFunc(func(in Input) (Stream, Values) {
		return in.Merged, Values{}
	})
}
