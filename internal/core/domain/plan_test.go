package domain_test

import (
	"errors"
	"testing"

	"go.trai.ch/kiln/internal/core/domain"
)

func step(name string, kind domain.StepKind) *domain.Step {
	return &domain.Step{
		Name: domain.NewInternedString(name),
		Kind: kind,
	}
}

// minimalSteps is the smallest kind sequence Validate accepts.
func minimalSteps() []*domain.Step {
	return []*domain.Step{
		step("base", domain.StepBase),
		step("system-packages", domain.StepSystemPackages),
		step("environment", domain.StepEnvironment),
		step("user", domain.StepUser),
		step("switch-user", domain.StepSwitchUser),
	}
}

func TestPlanValidate_Minimal(t *testing.T) {
	p := domain.NewPlan()
	for _, s := range minimalSteps() {
		if err := p.Append(s); err != nil {
			t.Fatalf("unexpected error appending %s: %v", s.Name.String(), err)
		}
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
}

func TestPlanValidate_FullProcedure(t *testing.T) {
	kinds := []domain.StepKind{
		domain.StepBase,
		domain.StepEnv,
		domain.StepCopy,
		domain.StepMeta,
		domain.StepSystemPackages,
		domain.StepEnvironment,
		domain.StepDevPackages,
		domain.StepFontCache,
		domain.StepPurge,
		domain.StepUser,
		domain.StepPath,
		domain.StepSwitchUser,
	}

	p := domain.NewPlan()
	for _, k := range kinds {
		if err := p.Append(step(string(k), k)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}

	// Walk yields steps in append order.
	var order []string
	for s := range p.Walk() {
		order = append(order, s.Name.String())
	}
	if len(order) != len(kinds) {
		t.Fatalf("expected %d steps, got %d", len(kinds), len(order))
	}
	if order[0] != "base" || order[len(order)-1] != "switch-user" {
		t.Errorf("unexpected walk order: %v", order)
	}
}

func TestPlanValidate_Empty(t *testing.T) {
	if err := domain.NewPlan().Validate(); !errors.Is(err, domain.ErrInvalidStepOrder) {
		t.Fatalf("expected ErrInvalidStepOrder, got %v", err)
	}
}

func TestPlanValidate_OutOfOrder(t *testing.T) {
	// Purge before any install step violates the procedure.
	p := domain.NewPlan()
	_ = p.Append(step("base", domain.StepBase))
	_ = p.Append(step("purge", domain.StepPurge))
	_ = p.Append(step("system-packages", domain.StepSystemPackages))
	_ = p.Append(step("environment", domain.StepEnvironment))
	_ = p.Append(step("user", domain.StepUser))
	_ = p.Append(step("switch-user", domain.StepSwitchUser))

	if err := p.Validate(); !errors.Is(err, domain.ErrInvalidStepOrder) {
		t.Fatalf("expected ErrInvalidStepOrder, got %v", err)
	}
}

func TestPlanValidate_MissingAnchor(t *testing.T) {
	// No isolated environment step.
	p := domain.NewPlan()
	_ = p.Append(step("base", domain.StepBase))
	_ = p.Append(step("system-packages", domain.StepSystemPackages))
	_ = p.Append(step("user", domain.StepUser))
	_ = p.Append(step("switch-user", domain.StepSwitchUser))

	if err := p.Validate(); !errors.Is(err, domain.ErrInvalidStepOrder) {
		t.Fatalf("expected ErrInvalidStepOrder, got %v", err)
	}
}

func TestPlanValidate_UnknownKind(t *testing.T) {
	p := domain.NewPlan()
	_ = p.Append(step("mystery", domain.StepKind("mystery")))

	if err := p.Validate(); !errors.Is(err, domain.ErrInvalidStepOrder) {
		t.Fatalf("expected ErrInvalidStepOrder, got %v", err)
	}
}

func TestPlanAppend_Duplicate(t *testing.T) {
	p := domain.NewPlan()
	if err := p.Append(step("base", domain.StepBase)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := p.Append(step("base", domain.StepBase))
	if !errors.Is(err, domain.ErrStepAlreadyExists) {
		t.Fatalf("expected ErrStepAlreadyExists, got %v", err)
	}
}

func TestPlanStep_Lookup(t *testing.T) {
	p := domain.NewPlan()
	_ = p.Append(step("base", domain.StepBase))

	s, err := p.Step(domain.NewInternedString("base"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Kind != domain.StepBase {
		t.Errorf("expected kind %q, got %q", domain.StepBase, s.Kind)
	}

	_, err = p.Step(domain.NewInternedString("missing"))
	if !errors.Is(err, domain.ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}
