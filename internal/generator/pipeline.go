package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/johan/hyblock-capital-sdk/internal/logger"
)

// StepObserver records the outcome of pipeline steps.
type StepObserver interface {
	ObserveStep(step string, ok bool, elapsed time.Duration)
}

// Step is one named pipeline stage.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError names the step that halted the pipeline.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pipeline runs steps in order and stops at the first failure.
type Pipeline struct {
	steps    []Step
	log      *logger.Logger
	observer StepObserver
}

// NewPipeline creates an empty pipeline. observer may be nil.
func NewPipeline(log *logger.Logger, observer StepObserver) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{log: log, observer: observer}
}

// Add appends a step.
func (p *Pipeline) Add(name string, fn func(ctx context.Context) error) *Pipeline {
	p.steps = append(p.steps, Step{Name: name, Run: fn})
	return p
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step. Steps after a failure are not run.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s.Name, Err: err}
		}

		p.log.Infow("Running step", "step", s.Name, "index", i+1, "total", len(p.steps))
		start := time.Now()
		err := s.Run(ctx)
		elapsed := time.Since(start)
		if p.observer != nil {
			p.observer.ObserveStep(s.Name, err == nil, elapsed)
		}
		if err != nil {
			p.log.Errorw("Step failed", "step", s.Name, "error", err)
			return &StepError{Step: s.Name, Err: err}
		}
		p.log.Infow("Step complete", "step", s.Name, "elapsed", elapsed.Round(time.Millisecond))
	}
	return nil
}
