package engine

// Conversion factors shared by the evaluators
const (
	CODToVS             = 0.7    // kg VS per kg COD, liquid approximation
	CODMethaneYield     = 0.35   // Nm³ CH4 per kg COD removed
	VSBiogasYield       = 0.40   // Nm³ biogas per kg VS
	BiogasMethaneShare  = 0.60   // CH4 volume fraction of raw biogas
	MethaneLHV          = 35.8   // MJ per Nm³ CH4
	MethaneKWh          = 9.97   // kWh per Nm³ CH4
	MJPerKWh            = 3.6    // MJ per kWh
	OperatingDays       = 330    // operating days per year
	EmissionFactor      = 0.0019 // tCO2eq avoided per Nm³ CH4
	MethaneGWP          = 21     // kg CO2eq per Nm³ CH4 destroyed
	DefaultElecPrice    = 350    // R$/MWh
	DefaultBiomethPrice = 3.50   // R$/Nm³
)
