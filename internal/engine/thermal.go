package engine

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors absorbed by the optimization core as infeasible trials.
var (
	// ErrThermalDivergence means the radiative-balance root-find did not
	// converge below the safety ceiling within its iteration cap.
	ErrThermalDivergence = errors.New("thermal equilibrium did not converge")

	// ErrNoWindingRoom means the trace width leaves no room for a single
	// turn inside the winding annulus.
	ErrNoWindingRoom = errors.New("no winding room at this trace width")
)

// Mode selects the ambient reference for the thermal equilibrium solve.
type Mode int

const (
	// ModeGround models bench testing: the board radiates against the
	// configured ambient temperature.
	ModeGround Mode = iota
	// ModeSpace models on-orbit operation: the board radiates against the
	// 0 °C spacecraft baseplate reference.
	ModeSpace
)

func (m Mode) String() string {
	if m == ModeSpace {
		return "space"
	}
	return "ground"
}

const (
	stefanBoltzmann = 5.67e-8 // W/(m²·K⁴)
	emissivity      = 0.9     // solder-mask finish
	kelvinOffset    = 273.15

	// equilibriumCeilingK aborts the solve when no equilibrium exists
	// below it; such a trial is a constraint violation, not a crash.
	equilibriumCeilingK = 1000.0

	equilibriumMaxIter = 100
	equilibriumTol     = 1e-9 // K
)

// sinkTemp returns the radiative sink temperature in Kelvin for a mode.
func (c *Coil) sinkTemp(mode Mode) float64 {
	if mode == ModeSpace {
		return kelvinOffset // 0 °C baseplate reference
	}
	return c.cfg.Design.AmbientTemp + kelvinOffset
}

// Equilibrium solves the radiative balance P = εσA(T⁴ − T_sink⁴) for the
// steady-state surface temperature and returns it in °C. The balance is
// strictly monotonic in T above the sink temperature, so Newton iteration
// from just above the sink converges to the unique root; a bisection step
// guards the rare overshoot. The solve is deterministic: the same power
// and mode always produce the same temperature.
func (c *Coil) Equilibrium(power float64, mode Mode) (float64, error) {
	sink := c.sinkTemp(mode)
	if power <= 0 {
		return sink - kelvinOffset, nil
	}

	radiator := emissivity * stefanBoltzmann * c.cfg.RadiatingArea()
	balance := func(t float64) float64 {
		return radiator*(t*t*t*t-sink*sink*sink*sink) - power
	}

	// No equilibrium below the ceiling: the dissipated power exceeds what
	// the board can radiate at any allowed temperature.
	if balance(equilibriumCeilingK) < 0 {
		return 0, fmt.Errorf("%w: %.3f W exceeds radiative capacity in %s mode", ErrThermalDivergence, power, mode)
	}

	lo, hi := sink, equilibriumCeilingK
	t := sink + 5.0
	for i := 0; i < equilibriumMaxIter; i++ {
		f := balance(t)
		if math.Abs(f) <= radiator*equilibriumTol {
			return t - kelvinOffset, nil
		}
		if f > 0 {
			hi = t
		} else {
			lo = t
		}
		deriv := 4 * radiator * t * t * t
		next := t - f/deriv
		if next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		if math.Abs(next-t) <= equilibriumTol {
			return next - kelvinOffset, nil
		}
		t = next
	}
	return 0, fmt.Errorf("%w: no convergence after %d iterations in %s mode", ErrThermalDivergence, equilibriumMaxIter, mode)
}

// allowablePower returns the dissipation at which the equilibrium
// temperature exactly reaches the operating limit in the given mode.
func (c *Coil) allowablePower(mode Mode) float64 {
	sink := c.sinkTemp(mode)
	limit := c.cfg.Design.OperatingTemp + kelvinOffset
	radiator := emissivity * stefanBoltzmann * c.cfg.RadiatingArea()
	return radiator * (limit*limit*limit*limit - sink*sink*sink*sink)
}

// AllowablePower returns the thermal power budget that keeps both
// operating modes at or below the operating temperature. Both modes must
// be independently feasible, so the tighter one governs.
func (c *Coil) AllowablePower() float64 {
	return math.Min(c.allowablePower(ModeGround), c.allowablePower(ModeSpace))
}
