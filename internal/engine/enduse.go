package engine

// End-use families, selected by technology id
var (
	DefaultCHP     = []string{"ice_cogen", "gas_turbine", "microturbine", "fuel_cell"}
	DefaultOfftake = []string{"biomethane_gnv", "biomethane_grid"}
	DefaultThermal = []string{"boiler", "flare"}
)

type family int

const (
	familyNone family = iota
	familyCHP
	familyOfftake
	familyThermal
)

// EndUse evaluates terminal technologies. Its output stream is always the
// default stream.
type EndUse struct {
	families map[string]family
}

// NewEndUse creates an end-use evaluator with the default families
func NewEndUse() *EndUse {
	e := &EndUse{families: make(map[string]family)}
	e.add(familyCHP, DefaultCHP)
	e.add(familyOfftake, DefaultOfftake)
	e.add(familyThermal, DefaultThermal)
	return e
}

func (e *EndUse) add(f family, ids []string) {
	for _, id := range ids {
		e.families[id] = f
	}
}

// Evaluate dispatches on the technology id. Unknown ids yield no values.
func (e *EndUse) Evaluate(in Input) (Stream, Values) {
	switch e.families[in.Tech.ID] {
	case familyCHP:
		return NewStream(), chp(in)
	case familyOfftake:
		return NewStream(), offtake(in)
	case familyThermal:
		return NewStream(), thermal(in)
	}
	return NewStream(), Values{}
}

func chp(in Input) Values {
	elecEff := fraction(paramOr(in, 0.38, "elec_efficiency", "elec_eff"))
	thermEff := fraction(paramOr(in, 0.45, "therm_efficiency", "therm_eff"))
	price := paramOr(in, DefaultElecPrice, "elec_price")

	energyInput := in.Merged.MethaneContent * MethaneKWh
	elec := energyInput * elecEff
	heat := energyInput * thermEff
	daily := elec / 1000 * price

	return Values{
		"methane_input":         in.Merged.MethaneContent,
		"energy_input":          energyInput,
		"electricity_kwh":       elec,
		"electricity_mwh_year":  elec * OperatingDays / 1000,
		"thermal_kwh":           heat,
		"electrical_efficiency": elecEff * 100,
		"thermal_efficiency":    thermEff * 100,
		"daily_revenue":         daily,
		"annual_revenue":        daily * OperatingDays,
	}
}

func offtake(in Input) Values {
	price := paramOr(in, DefaultBiomethPrice, "price")
	daily := in.Merged.MethaneContent * price

	return Values{
		"biomethane_sold":      in.Merged.MethaneContent,
		"biomethane_sold_year": in.Merged.MethaneContent * OperatingDays,
		"price_per_nm3":        price,
		"daily_revenue":        daily,
		"annual_revenue":       daily * OperatingDays,
	}
}

func thermal(in Input) Values {
	eff := fraction(paramOr(in, 0.85, "therm_efficiency", "therm_eff"))
	v := Values{
		"methane_input":      in.Merged.MethaneContent,
		"thermal_kwh":        safeDiv(in.Merged.EnergyContent*eff, MJPerKWh),
		"thermal_efficiency": eff * 100,
	}
	if destruction, ok := in.Tech.Defaults["destruction_efficiency"]; ok {
		destruction = fraction(destruction)
		v["methane_flared"] = in.Merged.MethaneContent
		v["destruction_efficiency"] = destruction * 100
		v["co2eq_avoided_kg"] = in.Merged.MethaneContent * MethaneGWP * destruction
	}
	return v
}
