package engine

// Default process conditions of a freshly created stream
const (
	DefaultTemperature = 35.0 // °C
	DefaultPressure    = 1.0  // bar
)

// Stream is the material and energy flow carried along an edge.
// Flows are per day.
type Stream struct {
	MassFlow       float64 `json:"mass_flow"`       // kg/day
	VolumeFlow     float64 `json:"volume_flow"`     // m³/day or Nm³/day
	EnergyContent  float64 `json:"energy_content"`  // MJ/day
	MethaneContent float64 `json:"methane_content"` // Nm³ CH4/day
	COD            float64 `json:"cod"`             // kg/day
	VSContent      float64 `json:"vs_content"`      // kg/day
	Temperature    float64 `json:"temperature"`     // °C
	Pressure       float64 `json:"pressure"`        // bar
}

// NewStream returns the default stream: zero flows at process conditions
func NewStream() Stream {
	return Stream{Temperature: DefaultTemperature, Pressure: DefaultPressure}
}

// Add returns the field-wise sum of s and o.
// Temperature and pressure are summed like every other field.
func (s Stream) Add(o Stream) Stream {
	return Stream{
		MassFlow:       s.MassFlow + o.MassFlow,
		VolumeFlow:     s.VolumeFlow + o.VolumeFlow,
		EnergyContent:  s.EnergyContent + o.EnergyContent,
		MethaneContent: s.MethaneContent + o.MethaneContent,
		COD:            s.COD + o.COD,
		VSContent:      s.VSContent + o.VSContent,
		Temperature:    s.Temperature + o.Temperature,
		Pressure:       s.Pressure + o.Pressure,
	}
}

// Sum merges streams in order. An empty list yields the default stream and a
// single stream is returned unchanged.
func Sum(streams ...Stream) Stream {
	if len(streams) == 0 {
		return NewStream()
	}
	out := streams[0]
	for _, s := range streams[1:] {
		out = out.Add(s)
	}
	return out
}
