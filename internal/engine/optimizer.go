package engine

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/piwi3910/magnetorquer/internal/model"
)

// Options controls the optimization core's convergence behavior.
type Options struct {
	ResidualTol      float64 // max constraint violation at a feasible point
	ObjectiveTol     float64 // relative objective change considered a plateau
	MaxIterations    int     // inner iteration cap per turn-count interval
	StableIterations int     // consecutive converged checks required to stop
	Seeds            int     // multistart seeds per turn-count interval
}

// DefaultOptions returns the tolerances used for flight designs.
func DefaultOptions() Options {
	return Options{
		ResidualTol:      1e-9,
		ObjectiveTol:     1e-9,
		MaxIterations:    200,
		StableIterations: 3,
		Seeds:            5,
	}
}

// Optimizer searches trace width (and the derived turn count) for the
// design of maximum magnetic moment satisfying every constraint.
//
// Turn count is an integer stepping function of the continuous trace
// width, so the search runs two levels: the outer loop enumerates every
// turn count reachable within the manufacturing width bounds, and the
// inner loop runs a projected gradient ascent on magnetic moment over the
// exact width interval realizing that turn count. The interval inversion
// in Coil.WidthInterval guarantees the optimizer and the trace geometry
// generator always agree on the turn count for the final width.
type Optimizer struct {
	coil *Coil
	opts Options
}

// NewOptimizer validates the constraint set and builds an optimizer.
func NewOptimizer(cfg model.ConstraintSet, opts Options) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxIterations <= 0 {
		opts = DefaultOptions()
	}
	return &Optimizer{coil: NewCoil(cfg), opts: opts}, nil
}

// Coil returns the evaluation model shared with the geometry generator.
func (o *Optimizer) Coil() *Coil { return o.coil }

// trial is one evaluated candidate width.
type trial struct {
	point     model.DesignPoint
	state     model.ElectroThermalState
	residuals model.Residuals
	moment    float64
	err       error
}

// evaluate computes the full trial record for a width. Thermal divergence
// is absorbed here as a penalized residual vector, never propagated.
func (o *Optimizer) evaluate(width float64) trial {
	point := o.coil.DesignPointFor(width)
	state, err := o.coil.Evaluate(point)
	if err != nil {
		return trial{point: point, state: state, residuals: divergedResiduals(), err: err}
	}
	return trial{
		point:     point,
		state:     state,
		residuals: o.coil.ResidualsFor(point, state),
		moment:    o.coil.Moment(point, state.Current),
	}
}

// merit is the penalized objective the inner search climbs: the magnetic
// moment, pushed down hard by any constraint violation.
func (o *Optimizer) merit(t trial) float64 {
	if t.err != nil {
		return -math.MaxFloat64
	}
	value := t.moment
	if worst := t.residuals.Max(); worst > 0 {
		value -= 1e3 * worst
	}
	return value
}

// Run executes the full two-level search and always returns a terminal
// result: converged with the best feasible design, infeasible with the
// least-violating point when no candidate satisfies every constraint, or
// failed when no candidate could be evaluated at all.
func (o *Optimizer) Run() model.OptimizationResult {
	bounds := o.coil.cfg.Manufacturing
	result := model.OptimizationResult{
		RunID:  model.NewRunID(),
		Status: model.StatusFailed,
	}

	var best, leastBad *trial
	iterations := 0

	nLo := o.coil.MaxTurns(bounds.MaxTraceWidth)
	if nLo < 1 {
		nLo = 1
	}
	nHi := o.coil.MaxTurns(bounds.MinTraceWidth)

	record := func(t trial) {
		if t.err != nil {
			return
		}
		if t.residuals.Feasible(o.opts.ResidualTol) {
			if best == nil || t.moment > best.moment {
				c := t
				best = &c
			}
		} else if leastBad == nil || t.residuals.Max() < leastBad.residuals.Max() {
			c := t
			leastBad = &c
		}
	}

	for n := nLo; n <= nHi; n++ {
		lo, hi, ok := o.coil.WidthInterval(n)
		if !ok {
			continue
		}
		t, iters := o.maximizeOnInterval(lo, hi)
		iterations += iters
		record(t)
	}

	// A board too tight for any turn-count interval still gets a verdict:
	// evaluate the width bounds directly so the caller sees the
	// least-violating point rather than a bare failure.
	if best == nil && leastBad == nil {
		record(o.evaluate(bounds.MinTraceWidth))
		record(o.evaluate(bounds.MaxTraceWidth))
		iterations += 2
	}

	result.Iterations = iterations
	chosen := best
	if chosen != nil {
		result.Status = model.StatusConverged
	} else if leastBad != nil {
		chosen = leastBad
		result.Status = model.StatusInfeasible
	} else {
		return result
	}

	result.Point = chosen.point
	result.State = chosen.state
	result.Residuals = chosen.residuals
	result.Moment = chosen.moment
	result.Dynamics = o.coil.DynamicsFor(chosen.point, chosen.state.Resistance)
	return result
}

// maximizeOnInterval runs the inner continuous search over one turn-count
// width interval. It seeds several starting widths across the interval,
// climbs the penalized objective with finite-difference gradients, and
// returns the best trial found along with the iteration count consumed.
func (o *Optimizer) maximizeOnInterval(lo, hi float64) (trial, int) {
	// Nudge off the open lower end so the derived turn count matches the
	// interval's.
	span := hi - lo
	inset := lo + span*1e-9

	if span <= 0 || inset >= hi {
		return o.evaluate(hi), 1
	}

	objective := func(w float64) float64 {
		if w < inset {
			w = inset
		} else if w > hi {
			w = hi
		}
		return o.merit(o.evaluate(w))
	}

	seeds := make([]float64, o.opts.Seeds)
	if len(seeds) < 2 {
		seeds = make([]float64, 2)
	}
	floats.Span(seeds, inset, hi)

	best := o.evaluate(hi)
	bestMerit := o.merit(best)
	iterations := 1

	fdSettings := &fd.Settings{Formula: fd.Central, Step: span * 1e-6}

	for _, seed := range seeds {
		w := seed
		step := span / 10
		current := o.evaluate(w)
		value := o.merit(current)
		iterations++
		stable := 0

		for iter := 0; iter < o.opts.MaxIterations && step > span*1e-12; iter++ {
			grad := fd.Derivative(objective, w, fdSettings)
			direction := 1.0
			if grad < 0 {
				direction = -1.0
			}

			next := w + direction*step
			if next < inset {
				next = inset
			} else if next > hi {
				next = hi
			}
			candidate := o.evaluate(next)
			candMerit := o.merit(candidate)
			iterations++

			if candMerit > value {
				improvement := math.Abs(candMerit - value)
				relative := improvement / math.Max(math.Abs(value), 1e-30)
				w, current, value = next, candidate, candMerit
				step *= 1.5
				if step > span/2 {
					step = span / 2
				}
				if relative < o.opts.ObjectiveTol && current.residuals.Max() < o.opts.ResidualTol {
					stable++
				} else {
					stable = 0
				}
			} else {
				step /= 2
				if current.residuals.Max() < o.opts.ResidualTol {
					stable++
				}
			}

			if stable >= o.opts.StableIterations {
				break
			}
		}

		if o.merit(current) > bestMerit {
			best = current
			bestMerit = o.merit(current)
		}
	}

	return best, iterations
}

// IsThermalDivergence reports whether an evaluation error was the thermal
// solver failing to converge, as opposed to a geometric impossibility.
func IsThermalDivergence(err error) bool {
	return errors.Is(err, ErrThermalDivergence)
}
