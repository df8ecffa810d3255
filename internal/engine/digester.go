package engine

// Digester converts organic load into biogas. Streams carrying COD use the
// COD pathway, everything else the volatile solids pathway.
func Digester() Evaluator {
	return EvaluatorFunc(func(in Input) (Stream, Values) {
		eta := fraction(paramOr(in, 0.70, "efficiency"))
		merged := in.Merged

		var biogas, ch4 float64
		if merged.COD > 0 {
			ch4 = merged.COD * CODMethaneYield * eta
			biogas = safeDiv(ch4, BiogasMethaneShare)
		} else {
			biogas = merged.VSContent * VSBiogasYield * eta
			ch4 = biogas * BiogasMethaneShare
		}
		energy := ch4 * MethaneLHV

		out := NewStream()
		out.VolumeFlow = biogas
		out.MethaneContent = ch4
		out.EnergyContent = energy

		return out, Values{
			"biogas_production":     biogas,
			"methane_production":    ch4,
			"conversion_efficiency": eta * 100,
			"energy_output_mj":      energy,
			"energy_output_kwh":     safeDiv(energy, MJPerKWh),
			"hrt_days":              paramOr(in, 20, "hrt"),
			"olr":                   defaultOr(in, "olr", 3),
		}
	})
}
