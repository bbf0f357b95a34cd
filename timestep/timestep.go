// Package timestep produces the finite ordered sequence of timesteps a
// model run advances through. This is the external collaborator spec.md §6
// describes: (start_date, end_date, date_format, step_days) -> a sequence of
// (date, index, duration).
package timestep

import (
	"fmt"
	"time"
)

// Timestep is a single discrete simulation step.
type Timestep struct {
	// Date is the calendar date this step begins on.
	Date time.Time
	// Index is this step's zero-based position in the sequence.
	Index int
	// DurationDays is the step's duration, in days. It is a float so that
	// Delta (below) can express sub-day or fractional-day steps if a
	// caller ever constructs a Timestepper that way directly.
	DurationDays float64
}

// Delta returns the timestep duration in the units storage dynamics are
// expressed in (days), as used directly by the LP's volume-bound
// coefficients (spec.md §4.5).
func (t Timestep) Delta() float64 {
	return t.DurationDays
}

// Timestepper generates a finite ordered sequence of Timesteps between a
// start and end date (inclusive of start, exclusive of any step that would
// start after end) at a fixed day-count stride.
type Timestepper struct {
	start    time.Time
	end      time.Time
	stepDays int
}

// New parses start/end with dateFormat (a strftime-style layout, see
// format.go) and returns a Timestepper advancing stepDays days per step.
// stepDays must be >= 1.
func New(start, end, dateFormat string, stepDays int) (*Timestepper, error) {
	if stepDays < 1 {
		return nil, fmt.Errorf("timestep: step_days must be >= 1, got %d", stepDays)
	}
	layout := translateStrftime(dateFormat)

	startDate, err := time.Parse(layout, start)
	if err != nil {
		return nil, fmt.Errorf("timestep: parsing start date %q: %w", start, err)
	}
	endDate, err := time.Parse(layout, end)
	if err != nil {
		return nil, fmt.Errorf("timestep: parsing end date %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("timestep: end date %q is before start date %q", end, start)
	}

	return &Timestepper{start: startDate, end: endDate, stepDays: stepDays}, nil
}

// Timesteps materialises the full sequence. Index starts at 0 and strictly
// increases; the last timestep's Date is <= the configured end date.
func (t *Timestepper) Timesteps() []Timestep {
	var steps []Timestep
	stride := time.Duration(t.stepDays) * 24 * time.Hour

	idx := 0
	for d := t.start; !d.After(t.end); d = d.Add(stride) {
		steps = append(steps, Timestep{
			Date:         d,
			Index:        idx,
			DurationDays: float64(t.stepDays),
		})
		idx++
	}
	return steps
}
