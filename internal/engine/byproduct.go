package engine

// Byproduct reports the unit value of a co-product. It emits no stream.
func Byproduct() Evaluator {
	return EvaluatorFunc(func(in Input) (Stream, Values) {
		return NewStream(), Values{
			"value_per_unit": defaultOr(in, "value", 0),
		}
	})
}
