package engine

// Pretreatment raises the effective volatile solids of the merged stream and
// reports the parasitic energy of the process.
func Pretreatment() Evaluator {
	return EvaluatorFunc(func(in Input) (Stream, Values) {
		increase := fraction(defaultOr(in, "biogas_increase", 15))
		energyUse := defaultOr(in, "energy_use", 0.3)

		out := in.Merged
		out.VSContent = in.Merged.VSContent * (1 + increase)

		var parasitic float64
		switch in.Tech.ID {
		case "thermal_hydrolysis":
			parasitic = in.Merged.VSContent * energyUse
		case "mechanical_prep":
			parasitic = in.Merged.MassFlow / 1000 * energyUse
		}

		return out, Values{
			"biogas_increase_percent": increase * 100,
			"parasitic_energy_kwh":    parasitic,
			"effective_vs_output":     out.VSContent,
		}
	})
}
