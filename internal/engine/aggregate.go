package engine

// Aggregate folds node results into a Summary. Results are summed in the
// order given so repeated runs produce identical totals.
func Aggregate(results []NodeResult) Summary {
	var biogas, methane, biomethane, elecKWh, heatKWh, revenue float64
	for _, r := range results {
		biogas += r.Value("biogas_production")
		methane += r.Value("methane_production")
		biomethane += r.Value("biomethane_production")
		elecKWh += r.Value("electricity_kwh")
		heatKWh += r.Value("thermal_kwh")
		revenue += r.Value("annual_revenue")
	}

	elecMWh := elecKWh / 1000
	emissions := methane * EmissionFactor
	return Summary{
		BiogasNm3Day:             biogas,
		MethaneNm3Day:            methane,
		BiomethaneNm3Day:         biomethane,
		ElectricityMWhDay:        elecMWh,
		ElectricityMWhYear:       elecMWh * OperatingDays,
		ThermalMWhDay:            heatKWh / 1000,
		AnnualRevenueBRL:         revenue,
		EmissionsAvoidedTCO2Day:  emissions,
		EmissionsAvoidedTCO2Year: emissions * OperatingDays,
	}
}
