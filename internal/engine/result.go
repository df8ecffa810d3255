package engine

import "bioroute/internal/domain"

// NodeResult is the diagnostic record of one evaluated node
type NodeResult struct {
	NodeID   string          `json:"node_id"`
	TechID   string          `json:"tech_id"`
	TechName string          `json:"tech_name"`
	Category domain.Category `json:"category"`
	Values   Values          `json:"values"`
}

// Value returns a named output, zero when absent
func (r NodeResult) Value(key string) float64 {
	return r.Values[key]
}

// Summary is the route-wide aggregate
type Summary struct {
	BiogasNm3Day             float64 `json:"biogas_nm3_day"`
	MethaneNm3Day            float64 `json:"methane_nm3_day"`
	BiomethaneNm3Day         float64 `json:"biomethane_nm3_day"`
	ElectricityMWhDay        float64 `json:"electricity_mwh_day"`
	ElectricityMWhYear       float64 `json:"electricity_mwh_year"`
	ThermalMWhDay            float64 `json:"thermal_mwh_day"`
	AnnualRevenueBRL         float64 `json:"annual_revenue_brl"`
	EmissionsAvoidedTCO2Day  float64 `json:"emissions_avoided_tco2_day"`
	EmissionsAvoidedTCO2Year float64 `json:"emissions_avoided_tco2_year"`
}

// Result is the complete output of a calculation
type Result struct {
	Summary     Summary               `json:"summary"`
	NodeDetails map[string]NodeResult `json:"node_details"`
	Streams     map[string]Stream     `json:"streams"`
	Order       []string              `json:"order"`
}
