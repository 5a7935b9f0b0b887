package model

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultConstraintsValidate(t *testing.T) {
	if err := DefaultConstraints().Validate(); err != nil {
		t.Fatalf("default constraint set should validate, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*ConstraintSet)
		mention string
	}{
		{"zero voltage", func(c *ConstraintSet) { c.Design.Voltage = 0 }, "voltage"},
		{"negative power", func(c *ConstraintSet) { c.Design.MaxPower = -1 }, "max_power"},
		{"single layer", func(c *ConstraintSet) { c.Design.NumLayers = 1 }, "num_layers"},
		{"inner exceeds outer", func(c *ConstraintSet) { c.Design.InnerLength = 0.2 }, "inner_length"},
		{"inverted width bounds", func(c *ConstraintSet) {
			c.Manufacturing.MinTraceWidth = 2e-3
			c.Manufacturing.MaxTraceWidth = 1e-3
		}, "min_trace_width"},
		{"operating below ambient", func(c *ConstraintSet) { c.Design.OperatingTemp = c.Design.AmbientTemp }, "operating_temp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConstraints()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.mention) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.mention)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConstraints()
	cfg.Design.Voltage = 0
	cfg.Design.NumLayers = 0

	var cerr *ConfigurationError
	if !errors.As(cfg.Validate(), &cerr) {
		t.Fatal("expected *ConfigurationError")
	}
	if len(cerr.Problems) < 2 {
		t.Errorf("expected at least 2 problems, got %d: %v", len(cerr.Problems), cerr.Problems)
	}
}

func TestDerivedQuantities(t *testing.T) {
	cfg := DefaultConstraints()

	wantThickness := cfg.Design.CopperWeight * cfg.Physical.OzToM
	if got := cfg.CopperThickness(); got != wantThickness {
		t.Errorf("CopperThickness = %g, want %g", got, wantThickness)
	}
	if got := cfg.CoilLayers(); got != cfg.Design.NumLayers-1 {
		t.Errorf("CoilLayers = %d, want %d", got, cfg.Design.NumLayers-1)
	}
	wantArea := cfg.Thermal.SurfaceAreaMultiplier * cfg.Design.OuterLength * cfg.Design.OuterWidth
	if got := cfg.RadiatingArea(); got != wantArea {
		t.Errorf("RadiatingArea = %g, want %g", got, wantArea)
	}
}
