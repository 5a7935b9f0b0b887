package model

import (
	"fmt"
	"strings"
)

// PhysicalConstants holds material and physical constants used by the
// electro-thermal model. All values are SI.
type PhysicalConstants struct {
	VacuumPermeability     float64 `json:"vacuum_permeability"`     // H/m
	CopperResistivity      float64 `json:"copper_resistivity"`      // Ohm·m at 20°C
	TemperatureCoefficient float64 `json:"temperature_coefficient"` // 1/K resistivity slope
	OzToM                  float64 `json:"oz_to_m"`                 // copper weight (oz/ft²) to thickness (m)
	CurrentDensityLimit    float64 `json:"current_density_limit"`   // A/m²
}

// ThermalProperties holds board-level thermal parameters.
type ThermalProperties struct {
	ConductivityCopper    float64 `json:"thermal_conductivity_copper"` // W/(m·K)
	ConductivityFR4       float64 `json:"thermal_conductivity_fr4"`    // W/(m·K)
	FR4Thickness          float64 `json:"fr4_thickness"`               // m
	SurfaceAreaMultiplier float64 `json:"surface_area_multiplier"`     // both faces + edge area factor
}

// DesignConstraints holds the electrical and geometric envelope the coil
// must be designed within.
type DesignConstraints struct {
	NumLayers     int     `json:"num_layers"`     // total board layers, incl. the terminal layer
	CopperWeight  float64 `json:"copper_weight"`  // oz/ft²
	MaxPower      float64 `json:"max_power"`      // W
	Voltage       float64 `json:"voltage"`        // V
	InnerLength   float64 `json:"inner_length"`   // m, central keep-out
	InnerWidth    float64 `json:"inner_width"`    // m
	OuterLength   float64 `json:"outer_length"`   // m, board envelope
	OuterWidth    float64 `json:"outer_width"`    // m
	OperatingTemp float64 `json:"operating_temp"` // °C, max allowed equilibrium temperature
	AmbientTemp   float64 `json:"ambient_temp"`   // °C, ground-test ambient
}

// ManufacturingConstraints holds the fab house limits.
type ManufacturingConstraints struct {
	MinTraceWidth   float64 `json:"min_trace_width"`   // m
	MaxTraceWidth   float64 `json:"max_trace_width"`   // m
	MinTraceSpacing float64 `json:"min_trace_spacing"` // m
}

// ConstraintSet is the complete, immutable input to one optimization run.
// It mirrors the constraints.json structure and is always passed by value;
// nothing in the engine mutates it.
type ConstraintSet struct {
	Physical      PhysicalConstants        `json:"physical_constants"`
	Thermal       ThermalProperties        `json:"thermal_properties"`
	Design        DesignConstraints        `json:"design_constraints"`
	Manufacturing ManufacturingConstraints `json:"manufacturing_constraints"`
}

// ConfigurationError reports every basic invariant a ConstraintSet violates.
// It is surfaced before optimization starts and never recovered locally.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid constraint set: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the ConstraintSet invariants: strictly positive values,
// inner dimensions strictly inside outer dimensions, orderable trace width
// bounds, and at least one winding layer beside the terminal layer.
func (c ConstraintSet) Validate() error {
	var problems []string

	positive := []struct {
		name  string
		value float64
	}{
		{"vacuum_permeability", c.Physical.VacuumPermeability},
		{"copper_resistivity", c.Physical.CopperResistivity},
		{"temperature_coefficient", c.Physical.TemperatureCoefficient},
		{"oz_to_m", c.Physical.OzToM},
		{"current_density_limit", c.Physical.CurrentDensityLimit},
		{"thermal_conductivity_copper", c.Thermal.ConductivityCopper},
		{"thermal_conductivity_fr4", c.Thermal.ConductivityFR4},
		{"fr4_thickness", c.Thermal.FR4Thickness},
		{"surface_area_multiplier", c.Thermal.SurfaceAreaMultiplier},
		{"copper_weight", c.Design.CopperWeight},
		{"max_power", c.Design.MaxPower},
		{"voltage", c.Design.Voltage},
		{"inner_length", c.Design.InnerLength},
		{"inner_width", c.Design.InnerWidth},
		{"outer_length", c.Design.OuterLength},
		{"outer_width", c.Design.OuterWidth},
		{"min_trace_width", c.Manufacturing.MinTraceWidth},
		{"max_trace_width", c.Manufacturing.MaxTraceWidth},
		{"min_trace_spacing", c.Manufacturing.MinTraceSpacing},
	}
	for _, p := range positive {
		if p.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %g", p.name, p.value))
		}
	}

	if c.Design.NumLayers < 2 {
		problems = append(problems, fmt.Sprintf("num_layers must be at least 2 (one winding layer plus the terminal layer), got %d", c.Design.NumLayers))
	}
	if c.Design.InnerLength >= c.Design.OuterLength {
		problems = append(problems, fmt.Sprintf("inner_length (%g) must be less than outer_length (%g)", c.Design.InnerLength, c.Design.OuterLength))
	}
	if c.Design.InnerWidth >= c.Design.OuterWidth {
		problems = append(problems, fmt.Sprintf("inner_width (%g) must be less than outer_width (%g)", c.Design.InnerWidth, c.Design.OuterWidth))
	}
	if c.Manufacturing.MinTraceWidth > c.Manufacturing.MaxTraceWidth {
		problems = append(problems, fmt.Sprintf("min_trace_width (%g) must not exceed max_trace_width (%g)", c.Manufacturing.MinTraceWidth, c.Manufacturing.MaxTraceWidth))
	}
	if c.Design.OperatingTemp <= c.Design.AmbientTemp {
		problems = append(problems, fmt.Sprintf("operating_temp (%g) must be above ambient_temp (%g)", c.Design.OperatingTemp, c.Design.AmbientTemp))
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// CopperThickness returns the trace thickness implied by the copper weight.
func (c ConstraintSet) CopperThickness() float64 {
	return c.Design.CopperWeight * c.Physical.OzToM
}

// CoilLayers returns the number of winding layers. The last board layer is
// reserved for the H-bridge terminal connections and carries no spiral.
func (c ConstraintSet) CoilLayers() int {
	return c.Design.NumLayers - 1
}

// RadiatingArea returns the exposed surface area used in the radiative
// balance, derived from the board envelope and the surface-area multiplier.
func (c ConstraintSet) RadiatingArea() float64 {
	return c.Thermal.SurfaceAreaMultiplier * c.Design.OuterLength * c.Design.OuterWidth
}

// DefaultConstraints returns the reference 6-layer CubeSat magnetorquer
// constraint set: 1 W budget at 8.2 V, 132x61 mm board with a 97x25 mm
// central keep-out, 1 oz copper, standard fab limits.
func DefaultConstraints() ConstraintSet {
	return ConstraintSet{
		Physical: PhysicalConstants{
			VacuumPermeability:     1.25663706e-6,
			CopperResistivity:      1.68e-8,
			TemperatureCoefficient: 0.00393,
			OzToM:                  3.48e-5,
			CurrentDensityLimit:    35e6, // 35 A/mm²
		},
		Thermal: ThermalProperties{
			ConductivityCopper:    398.0,
			ConductivityFR4:       0.29,
			FR4Thickness:          1.6e-3,
			SurfaceAreaMultiplier: 2.1,
		},
		Design: DesignConstraints{
			NumLayers:     6,
			CopperWeight:  1.0,
			MaxPower:      1.0,
			Voltage:       8.2,
			InnerLength:   0.097,
			InnerWidth:    0.025,
			OuterLength:   0.132,
			OuterWidth:    0.061,
			OperatingTemp: 65.0,
			AmbientTemp:   20.0,
		},
		Manufacturing: ManufacturingConstraints{
			MinTraceWidth:   0.15e-3,
			MaxTraceWidth:   1.0e-3,
			MinTraceSpacing: 0.15e-3,
		},
	}
}
