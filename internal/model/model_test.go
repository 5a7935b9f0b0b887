package model

import (
	"math"
	"testing"
)

func TestPathLength(t *testing.T) {
	p := Path{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 4}}
	if got := p.Length(); got != 7 {
		t.Errorf("Length = %g, want 7", got)
	}
	if got := (Path{}).Length(); got != 0 {
		t.Errorf("empty path Length = %g, want 0", got)
	}
	if got := (Path{{X: 1, Y: 1}}).Length(); got != 0 {
		t.Errorf("single-point path Length = %g, want 0", got)
	}
}

func TestResidualsMaxAndFeasible(t *testing.T) {
	r := Residuals{
		Power:          -0.5,
		ThermalGround:  -36,
		ThermalSpace:   -53,
		CurrentDensity: 2e5,
		FitLength:      -1e-3,
		FitWidth:       -1e-3,
	}
	if got := r.Max(); got != 2e5 {
		t.Errorf("Max = %g, want 2e5", got)
	}
	if r.Feasible(1e-9) {
		t.Error("residuals with a positive entry must not be feasible")
	}

	r.CurrentDensity = -2e5
	if !r.Feasible(1e-9) {
		t.Error("all-negative residuals must be feasible")
	}
	if got := r.Max(); got != -1e-3 {
		t.Errorf("Max = %g, want -1e-3", got)
	}
}

func TestWorstEquilibriumPicksHotterMode(t *testing.T) {
	s := ElectroThermalState{EquilibriumGround: 29.0, EquilibriumSpace: 11.5}
	if got := s.WorstEquilibrium(); got != 29.0 {
		t.Errorf("WorstEquilibrium = %g, want 29.0", got)
	}
}

func TestCrossSection(t *testing.T) {
	p := DesignPoint{TraceWidth: 0.45e-3, CopperThickness: 3.48e-5}
	want := 0.45e-3 * 3.48e-5
	if got := p.CrossSection(); math.Abs(got-want) > 1e-18 {
		t.Errorf("CrossSection = %g, want %g", got, want)
	}
}

func TestWindingDirectionString(t *testing.T) {
	if Clockwise.String() != "clockwise" {
		t.Errorf("Clockwise.String() = %q", Clockwise.String())
	}
	if CounterClockwise.String() != "counter-clockwise" {
		t.Errorf("CounterClockwise.String() = %q", CounterClockwise.String())
	}
}

func TestNewRunIDShape(t *testing.T) {
	id := NewRunID()
	if len(id) != 8 {
		t.Errorf("run id %q should be 8 characters", id)
	}
	if id == NewRunID() {
		t.Error("consecutive run ids should differ")
	}
}

func TestAddRecentDesign(t *testing.T) {
	cfg := DefaultWorkspaceConfig()

	cfg.AddRecentDesign("a.json")
	cfg.AddRecentDesign("b.json")
	cfg.AddRecentDesign("a.json")
	if len(cfg.RecentDesigns) != 2 {
		t.Fatalf("expected 2 entries, got %v", cfg.RecentDesigns)
	}
	if cfg.RecentDesigns[0] != "a.json" || cfg.RecentDesigns[1] != "b.json" {
		t.Errorf("unexpected order: %v", cfg.RecentDesigns)
	}

	for i := 0; i < 15; i++ {
		cfg.AddRecentDesign(string(rune('a'+i)) + "-design.json")
	}
	if len(cfg.RecentDesigns) != 10 {
		t.Errorf("recent list should cap at 10, got %d", len(cfg.RecentDesigns))
	}
}
