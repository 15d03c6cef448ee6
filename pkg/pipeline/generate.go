package pipeline

import (
	"fmt"
	"strings"

	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/core/repair"
	"github.com/matzehuels/roomforge/pkg/core/validate"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
)

// Generate runs the placement engine over a normalized program, validates
// the result, and repairs violations within the pass budget. The annealing
// fallback runs only when local repair leaves violations and opts.Anneal is
// set.
//
// Generate never fails on an unplaceable layout; the outcome is reported
// through the layout status and violation list. An error means the options
// were invalid.
func Generate(spec *program.Spec, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return layout.Layout{}, err
	}

	engine := place.NewEngine(spec.Lot, spec.Rules, place.Config{
		CellFt:    opts.CellFt,
		Aspect:    opts.Aspect,
		DoorwayFt: opts.DoorwayFt,
		Weights:   opts.Weights,
		Logger:    opts.Logger,
	})
	res := engine.Run(spec)

	validator := validate.New(engine.Grid(), opts.PrivacyFt)
	validator.Rules = spec.Rules
	validator.DoorwayCells = engine.Scorer().DoorwayCells
	violations := validator.Check(res.Rooms)
	if len(violations) > 0 {
		rp := repair.NewRepairer(engine.Grid(), engine.Scorer(), validator, spec.Rules, opts.Seed, opts.Logger)
		rp.MaxPasses = opts.RepairPasses
		violations = rp.Repair(res.Rooms)
	}
	if len(violations) > 0 && opts.Anneal {
		opts.Logger.Info("local repair exhausted, annealing", "violations", len(violations))
		repair.Anneal(engine.Grid(), res.Rooms, engine.Scorer(), spec.Rules, opts.Seed, nil)
		violations = validator.Check(res.Rooms)
	}

	return buildLayout(spec, res, violations, opts), nil
}

// buildLayout converts the placed room set from cell coordinates to feet and
// attaches status, violations and generation metadata.
func buildLayout(spec *program.Spec, res *place.Result, violations []string, opts Options) layout.Layout {
	l := layout.Layout{
		Lot:        layout.Lot{Width: spec.Lot.Width, Height: spec.Lot.Height},
		Status:     statusFor(res.Status, violations),
		Violations: violations,
		Seed:       opts.Seed,
		CellFt:     opts.CellFt,
	}
	for _, r := range res.Rooms {
		l.Rooms = append(l.Rooms, layout.Room{
			Name:   r.Name(),
			Type:   string(r.Type()),
			Zone:   string(r.Zone),
			X:      float64(r.Rect.X) * opts.CellFt,
			Y:      float64(r.Rect.Y) * opts.CellFt,
			Width:  float64(r.Rect.W) * opts.CellFt,
			Height: float64(r.Rect.H) * opts.CellFt,
			Locked: r.Locked,
		})
	}
	if msg := failureMessage(res); msg != "" {
		l.Message = msg
	}
	return l
}

func statusFor(rs place.RunStatus, violations []string) string {
	switch {
	case rs == place.StatusFailure:
		return layout.StatusFailed
	case len(violations) > 0:
		return layout.StatusFailed
	case rs == place.StatusPartial:
		return layout.StatusPartial
	default:
		return layout.StatusOK
	}
}

func failureMessage(res *place.Result) string {
	var failed []string
	for _, o := range res.Outcomes {
		if o.State == place.StateFailed {
			failed = append(failed, o.Spec.Name)
		}
	}
	if len(failed) == 0 {
		return ""
	}
	return fmt.Sprintf("could not place: %s", strings.Join(failed, ", "))
}
