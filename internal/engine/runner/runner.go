// Package runner executes a build plan strictly sequentially with layer
// caching.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configure a single run.
type Options struct {
	// NoCache forces every step to execute even when its layer is present
	// with a matching input hash.
	NoCache bool
}

// Runner executes plans. One step at a time, full barrier between steps,
// abort on the first failure. There are no retries and no rollback:
// already-recorded layers stay valid.
type Runner struct {
	executor ports.Executor
	hasher   ports.LayerHasher
	store    ports.LayerStore
	verifier ports.Verifier
	tel      ports.Telemetry
	logger   ports.Logger

	mu       sync.RWMutex
	statuses map[domain.InternedString]domain.StepStatus
}

// NewRunner creates a new Runner.
func NewRunner(
	executor ports.Executor,
	hasher ports.LayerHasher,
	store ports.LayerStore,
	verifier ports.Verifier,
	tel ports.Telemetry,
	logger ports.Logger,
) *Runner {
	return &Runner{
		executor: executor,
		hasher:   hasher,
		store:    store,
		verifier: verifier,
		tel:      tel,
		logger:   logger,
		statuses: make(map[domain.InternedString]domain.StepStatus),
	}
}

// Run executes the plan against the build root and returns the accumulated
// image configuration. The returned configuration is only written by the
// caller once Run succeeds; a failed build leaves no image snapshot.
func (r *Runner) Run(
	ctx context.Context,
	plan *domain.Plan,
	root string,
	flag domain.BuildFlag,
	opts Options,
) (*domain.ImageConfig, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	r.initStatuses(plan)
	cfg := domain.NewImageConfig()

	for step := range plan.Walk() {
		if err := ctx.Err(); err != nil {
			r.setStatus(step.Name, domain.StepStatusFailed)
			return nil, zerr.With(zerr.Wrap(err, "build canceled"), "step", step.Name.String())
		}

		if err := r.runStep(ctx, &step, root, flag, opts, cfg); err != nil {
			r.setStatus(step.Name, domain.StepStatusFailed)
			// Join keeps the cause inspectable: callers can match both the
			// build failure sentinel and whatever the step actually hit.
			return nil, zerr.With(
				errors.Join(domain.ErrBuildExecutionFailed, err),
				"step", step.Name.String(),
			)
		}
	}

	cfg.CreatedAt = time.Now().UTC()
	return cfg, nil
}

func (r *Runner) runStep(
	ctx context.Context,
	step *domain.Step,
	root string,
	flag domain.BuildFlag,
	opts Options,
	cfg *domain.ImageConfig,
) error {
	r.setStatus(step.Name, domain.StepStatusRunning)
	r.logger.Info("running step: " + step.Name.String())

	stepCtx, vtx := r.tel.Record(ctx, step.Name.String())

	if err := r.verifier.VerifyInputs(root, step); err != nil {
		vtx.Complete(err)
		return err
	}

	hash, err := r.hasher.ComputeStepHash(step, flag, root)
	if err != nil {
		vtx.Complete(err)
		return err
	}

	if !opts.NoCache {
		cached, err := r.isCached(step, hash)
		if err != nil {
			vtx.Complete(err)
			return err
		}
		if cached {
			r.logger.Info("layer cache hit: " + step.Name.String())
			r.setStatus(step.Name, domain.StepStatusCached)
			// The mutation still applies: cached layers contribute to the
			// image configuration exactly like executed ones.
			cfg.ApplyMutation(step.Mutation)
			vtx.Cached()
			vtx.Complete(nil)
			return nil
		}
	}

	if err := r.executor.Execute(stepCtx, step, root, cfg.EnvSlice()); err != nil {
		vtx.Complete(err)
		return err
	}

	if err := r.store.Put(domain.LayerInfo{
		StepName:  step.Name.String(),
		InputHash: hash,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		vtx.Complete(err)
		return err
	}

	cfg.ApplyMutation(step.Mutation)
	r.setStatus(step.Name, domain.StepStatusCompleted)
	vtx.Complete(nil)
	return nil
}

func (r *Runner) isCached(step *domain.Step, hash string) (bool, error) {
	info, err := r.store.Get(step.Name.String())
	if err != nil {
		return false, err
	}
	return info != nil && info.InputHash == hash, nil
}

// Status returns the current status of a step.
func (r *Runner) Status(name domain.InternedString) domain.StepStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statuses[name]
}

func (r *Runner) initStatuses(plan *domain.Plan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = make(map[domain.InternedString]domain.StepStatus, plan.Len())
	for step := range plan.Walk() {
		r.statuses[step.Name] = domain.StepStatusPending
	}
}

func (r *Runner) setStatus(name domain.InternedString, status domain.StepStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[name] = status
}
