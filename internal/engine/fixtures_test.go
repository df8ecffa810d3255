package engine

import "bioroute/internal/domain"

func testReference() ReferenceMap {
	techs := []domain.Technology{
		{ID: "vinasse", Category: domain.CategoryFeedstock, Name: "Vinasse",
			Defaults: map[string]float64{"cod": 25},
			Parameters: []domain.ParameterSpec{{Key: "quantity", DefaultValue: 1000}}},
		{ID: "bagasse", Category: domain.CategoryFeedstock, Name: "Bagasse",
			Defaults: map[string]float64{"lhv": 7.5, "moisture": 50, "vs": 85}},
		{ID: "thermal_hydrolysis", Category: domain.CategoryPretreatment, Name: "Thermal hydrolysis",
			Defaults: map[string]float64{"biogas_increase": 25, "energy_use": 0.5}},
		{ID: "mechanical_prep", Category: domain.CategoryPretreatment, Name: "Mechanical prep",
			Defaults: map[string]float64{"biogas_increase": 15, "energy_use": 0.3}},
		{ID: "alkaline_pretreat", Category: domain.CategoryPretreatment, Name: "Alkaline pretreatment",
			Defaults: map[string]float64{"biogas_increase": 20, "energy_use": 0.1, "retention_time": 24}},
		{ID: "uasb", Category: domain.CategoryDigester, Name: "UASB",
			Defaults: map[string]float64{"efficiency": 0.80, "hrt": 1.0, "olr": 15}},
		{ID: "cstr", Category: domain.CategoryDigester, Name: "CSTR",
			Defaults: map[string]float64{"efficiency": 0.70}},
		{ID: "membrane", Category: domain.CategoryUpgrading, Name: "Membrane",
			Defaults: map[string]float64{"recovery": 0.96, "energy_use": 0.20, "ch4_purity": 0.97}},
		{ID: "ice_cogen", Category: domain.CategoryEndUse, Name: "ICE cogeneration",
			Defaults: map[string]float64{"elec_eff": 0.40, "therm_eff": 0.45, "elec_price": 350}},
		{ID: "biomethane_gnv", Category: domain.CategoryEndUse, Name: "Biomethane CNG",
			Defaults: map[string]float64{"price": 3.50}},
		{ID: "boiler", Category: domain.CategoryEndUse, Name: "Boiler",
			Defaults: map[string]float64{"therm_eff": 0.85}},
		{ID: "flare", Category: domain.CategoryEndUse, Name: "Flare",
			Defaults: map[string]float64{"destruction_efficiency": 0.99, "therm_eff": 0}},
		{ID: "digestate_solid", Category: domain.CategoryByproduct, Name: "Solid digestate",
			Defaults: map[string]float64{"value": 30}},
		{ID: "mixer", Category: domain.Category("mixing"), Name: "Mixing tank"},
	}
	ref := make(ReferenceMap, len(techs))
	for _, t := range techs {
		ref[t.ID] = t
	}
	return ref
}

func node(id, techID string, params map[string]float64) domain.RouteNode {
	return domain.RouteNode{NodeID: id, TechID: techID, Parameters: params}
}

func edge(source, target string) domain.RouteEdge {
	return domain.RouteEdge{Source: source, Target: target}
}

// standardMill is vinasse -> uasb -> membrane -> ice_cogen
func standardMill() domain.Route {
	return domain.Route{
		Nodes: []domain.RouteNode{
			node("feed-1", "vinasse", map[string]float64{"quantity": 1000}),
			node("dig-1", "uasb", map[string]float64{"efficiency": 0.80}),
			node("upg-1", "membrane", map[string]float64{"recovery": 0.96}),
			node("end-1", "ice_cogen", map[string]float64{"elec_eff": 0.40, "therm_eff": 0.45, "elec_price": 350}),
		},
		Edges: []domain.RouteEdge{
			edge("feed-1", "dig-1"),
			edge("dig-1", "upg-1"),
			edge("upg-1", "end-1"),
		},
	}
}
