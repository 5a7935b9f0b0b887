package project

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// Extent is a length/width pair in millimeters.
type Extent struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// ReportDimensions holds the board envelope and keep-out, in millimeters.
type ReportDimensions struct {
	Inner Extent `json:"inner"`
	Outer Extent `json:"outer"`
}

// ReportTraces summarizes the winding layout.
type ReportTraces struct {
	Width         float64 `json:"width"`           // mm
	Spacing       float64 `json:"spacing"`         // mm
	TurnsPerLayer int     `json:"turns_per_layer"`
	TotalLayers   int     `json:"total_layers"`
	TotalLength   float64 `json:"total_length"` // m
}

// ReportElectrical summarizes the operating point.
type ReportElectrical struct {
	Resistance     float64 `json:"resistance"`      // Ohm
	Voltage        float64 `json:"voltage"`         // V
	Current        float64 `json:"current"`         // A
	Power          float64 `json:"power"`           // W
	CurrentDensity float64 `json:"current_density"` // A/mm²
}

// ReportThermalMode is the steady-state result for one operating mode.
type ReportThermalMode struct {
	Ambient          float64 `json:"ambient"`           // °C sink reference
	TemperatureRise  float64 `json:"temperature_rise"`  // °C above sink
	FinalTemperature float64 `json:"final_temperature"` // °C
}

// ReportThermal carries both operating modes.
type ReportThermal struct {
	Space  ReportThermalMode `json:"space"`
	Ground ReportThermalMode `json:"ground"`
}

// ReportDynamics summarizes the RL response.
type ReportDynamics struct {
	Inductance       float64 `json:"inductance"`           // µH
	TimeConstant     float64 `json:"time_constant"`        // ms
	TimeTo99Percent  float64 `json:"time_to_99_percent"`   // ms
	MaxMoment99      float64 `json:"max_moment_99_percent"` // A·m²
}

// ReportPerformance carries the achieved objective.
type ReportPerformance struct {
	MagneticMoment float64 `json:"magnetic_moment"` // A·m²
	Status         string  `json:"status"`
	RunID          string  `json:"run_id"`
}

// Report is the human-facing analysis summary of one design, in display
// units (millimeters, milliseconds, A/mm²) rather than the SI units the
// engine computes in.
type Report struct {
	Dimensions  ReportDimensions  `json:"dimensions"`
	Traces      ReportTraces      `json:"traces"`
	Electrical  ReportElectrical  `json:"electrical"`
	Thermal     ReportThermal     `json:"thermal"`
	Dynamics    ReportDynamics    `json:"dynamics"`
	Performance ReportPerformance `json:"performance"`
}

// round keeps display values readable without losing engineering digits.
func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

// BuildReport converts a design record into the display-unit summary.
func BuildReport(design model.Design) Report {
	cfg := design.Constraints
	r := design.Result

	return Report{
		Dimensions: ReportDimensions{
			Inner: Extent{
				Length: round(cfg.Design.InnerLength*1e3, 1),
				Width:  round(cfg.Design.InnerWidth*1e3, 1),
			},
			Outer: Extent{
				Length: round(cfg.Design.OuterLength*1e3, 1),
				Width:  round(cfg.Design.OuterWidth*1e3, 1),
			},
		},
		Traces: ReportTraces{
			Width:         round(r.Point.TraceWidth*1e3, 3),
			Spacing:       round(cfg.Manufacturing.MinTraceSpacing*1e3, 3),
			TurnsPerLayer: r.Point.Turns,
			TotalLayers:   cfg.Design.NumLayers,
			TotalLength:   round(r.State.TraceLength, 1),
		},
		Electrical: ReportElectrical{
			Resistance:     round(r.State.Resistance, 2),
			Voltage:        round(cfg.Design.Voltage, 2),
			Current:        round(r.State.Current, 3),
			Power:          round(r.State.Power, 2),
			CurrentDensity: round(r.State.CurrentDensity/1e6, 2),
		},
		Thermal: ReportThermal{
			Space: ReportThermalMode{
				Ambient:          0.0,
				TemperatureRise:  round(r.State.EquilibriumSpace, 2),
				FinalTemperature: round(r.State.EquilibriumSpace, 2),
			},
			Ground: ReportThermalMode{
				Ambient:          round(cfg.Design.AmbientTemp, 1),
				TemperatureRise:  round(r.State.EquilibriumGround-cfg.Design.AmbientTemp, 2),
				FinalTemperature: round(r.State.EquilibriumGround, 2),
			},
		},
		Dynamics: ReportDynamics{
			Inductance:      round(r.Dynamics.Inductance*1e6, 3),
			TimeConstant:    round(r.Dynamics.TimeConstant*1e3, 2),
			TimeTo99Percent: round(r.Dynamics.TimeTo99*1e3, 2),
			MaxMoment99:     round(r.Moment*0.99, 4),
		},
		Performance: ReportPerformance{
			MagneticMoment: round(r.Moment, 4),
			Status:         string(r.Status),
			RunID:          r.RunID,
		},
	}
}

// SaveReport writes the summary JSON next to the other run artifacts.
func SaveReport(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
