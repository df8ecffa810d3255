package engine

// param resolves the first of keys from the node parameters, then from the
// technology defaults.
func param(in Input, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := in.Params[k]; ok {
			return v, true
		}
	}
	for _, k := range keys {
		if v, ok := in.Tech.Defaults[k]; ok {
			return v, true
		}
	}
	return 0, false
}

func paramOr(in Input, fallback float64, keys ...string) float64 {
	if v, ok := param(in, keys...); ok {
		return v
	}
	return fallback
}

// defaultOr reads a technology default, ignoring node parameters
func defaultOr(in Input, key string, fallback float64) float64 {
	if v, ok := in.Tech.Defaults[key]; ok {
		return v
	}
	return fallback
}

// fraction turns a percentage (> 1) into a fraction
func fraction(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
