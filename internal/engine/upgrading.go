package engine

// Upgrading separates CO2 from biogas. Parasitic load is reported only and is
// not subtracted from the output.
func Upgrading() Evaluator {
	return EvaluatorFunc(func(in Input) (Stream, Values) {
		recovery := fraction(paramOr(in, 0.96, "recovery"))
		energyUse := defaultOr(in, "energy_use", 0.25)
		purity := fraction(defaultOr(in, "ch4_purity", 0.97))
		merged := in.Merged

		biomethane := merged.MethaneContent * recovery

		out := NewStream()
		out.VolumeFlow = biomethane
		out.MethaneContent = biomethane
		out.EnergyContent = biomethane * MethaneLHV

		return out, Values{
			"biogas_input":           merged.VolumeFlow,
			"biomethane_production":  biomethane,
			"methane_recovery":       recovery * 100,
			"methane_purity_percent": purity * 100,
			"methane_loss":           merged.MethaneContent - biomethane,
			"parasitic_energy":       merged.VolumeFlow * energyUse,
			"co2_separated":          merged.VolumeFlow * (1 - BiogasMethaneShare),
		}
	})
}
