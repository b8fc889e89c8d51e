package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Plan is the ordered, immutable expansion of a recipe into build steps.
// Steps execute strictly sequentially; there is no parallelism and no
// reordering.
type Plan struct {
	steps  []Step
	byName map[InternedString]int
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		byName: make(map[InternedString]int),
	}
}

// Append adds a step at the end of the plan.
// It returns an error if a step with the same name already exists.
func (p *Plan) Append(s *Step) error {
	if _, exists := p.byName[s.Name]; exists {
		return zerr.With(ErrStepAlreadyExists, "step_name", s.Name.String())
	}
	p.byName[s.Name] = len(p.steps)
	p.steps = append(p.steps, *s)
	return nil
}

// Step returns the step with the given name.
func (p *Plan) Step(name InternedString) (Step, error) {
	idx, exists := p.byName[name]
	if !exists {
		return Step{}, zerr.With(ErrStepNotFound, "step_name", name.String())
	}
	return p.steps[idx], nil
}

// Len returns the number of steps in the plan.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Validate checks the mandatory ordering of the build procedure: step kinds
// appear in strictly increasing rank, the isolated environment exists before
// the conditional development install, and the purge runs only after every
// install step.
func (p *Plan) Validate() error {
	if len(p.steps) == 0 {
		return zerr.With(ErrInvalidStepOrder, "reason", "plan is empty")
	}

	prevRank := 0
	seen := make(map[StepKind]bool, len(p.steps))
	for _, s := range p.steps {
		rank := s.Kind.Rank()
		if rank == 0 {
			return zerr.With(ErrInvalidStepOrder, "step_kind", string(s.Kind))
		}
		if rank <= prevRank {
			err := zerr.With(ErrInvalidStepOrder, "step_name", s.Name.String())
			return zerr.With(err, "step_kind", string(s.Kind))
		}
		prevRank = rank
		seen[s.Kind] = true
	}

	// The procedure is meaningless without these anchors.
	for _, required := range []StepKind{StepBase, StepSystemPackages, StepEnvironment, StepUser, StepSwitchUser} {
		if !seen[required] {
			return zerr.With(ErrInvalidStepOrder, "missing_step_kind", string(required))
		}
	}
	if seen[StepDevPackages] && !seen[StepEnvironment] {
		return zerr.With(ErrInvalidStepOrder, "reason", "dev packages require the isolated environment")
	}
	if p.steps[len(p.steps)-1].Kind != StepSwitchUser {
		return zerr.With(ErrInvalidStepOrder, "reason", "switch-user must be the final step")
	}

	return nil
}

// Walk returns an iterator that yields steps in execution order.
func (p *Plan) Walk() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for _, s := range p.steps {
			if !yield(s) {
				return
			}
		}
	}
}
