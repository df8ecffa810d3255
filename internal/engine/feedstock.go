package engine

// DefaultLiquidFeedstocks are the technology ids evaluated on the COD pathway
var DefaultLiquidFeedstocks = []string{"vinasse", "wash_water"}

// Feedstock evaluates source nodes. Liquid feedstocks are characterised by
// COD, solid ones by moisture, volatile solids and heating value.
type Feedstock struct {
	liquid map[string]bool
}

// NewFeedstock creates a feedstock evaluator with the given liquid ids
func NewFeedstock(liquid ...string) *Feedstock {
	f := &Feedstock{liquid: make(map[string]bool, len(liquid))}
	for _, id := range liquid {
		f.liquid[id] = true
	}
	return f
}

// IsLiquid reports whether techID takes the liquid pathway
func (f *Feedstock) IsLiquid(techID string) bool {
	return f.liquid[techID]
}

// Evaluate ignores incoming streams
func (f *Feedstock) Evaluate(in Input) (Stream, Values) {
	q := quantity(in)
	out := NewStream()

	if f.liquid[in.Tech.ID] {
		cod := q * defaultOr(in, "cod", 25)
		out.VolumeFlow = q
		out.COD = cod
		out.VSContent = cod * CODToVS
		return out, Values{
			"input_quantity":   q,
			"cod_total":        cod,
			"vs_available":     out.VSContent,
			"energy_available": 0,
		}
	}

	moisture := fraction(defaultOr(in, "moisture", 50))
	vsFraction := fraction(defaultOr(in, "vs", 85))
	lhv := defaultOr(in, "lhv", 7.5)

	dryMass := q * (1 - moisture)
	out.MassFlow = q * 1000
	out.VSContent = dryMass * vsFraction * 1000
	out.EnergyContent = q * 1000 * (1 - moisture) * lhv
	return out, Values{
		"input_quantity":   q,
		"dry_mass":         dryMass,
		"vs_available":     out.VSContent,
		"energy_available": out.EnergyContent,
	}
}

// quantity reads the node quantity, then the catalog default, then the
// parameter descriptor default.
func quantity(in Input) float64 {
	if v, ok := param(in, "quantity"); ok {
		return v
	}
	if p, ok := in.Tech.Parameter("quantity"); ok {
		return p.DefaultValue
	}
	return 0
}
