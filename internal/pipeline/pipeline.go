// Package pipeline breaks each task category into an ordered chain of
// small steps. A step reads and annotates the shared context; the
// first failing step stops the chain.
package pipeline

import (
	"fmt"

	"go.uber.org/zap"
)

// Context is the mutable state threaded through a pipeline run.
type Context struct {
	Input  string
	Fields map[string]string
	Result string
}

func NewContext(input string) *Context {
	return &Context{Input: input, Fields: make(map[string]string)}
}

// Step is one named stage of a pipeline.
type Step struct {
	Name string
	Run  func(*Context) error
}

// Pipeline executes its steps in order against a shared context.
type Pipeline struct {
	name   string
	steps  []Step
	logger *zap.Logger
}

func New(name string, logger *zap.Logger, steps ...Step) *Pipeline {
	return &Pipeline{name: name, steps: steps, logger: logger.Named(name)}
}

func (p *Pipeline) Name() string { return p.name }

// Execute runs the chain, stopping at the first step error.
func (p *Pipeline) Execute(input string) (*Context, error) {
	ctx := NewContext(input)
	for _, step := range p.steps {
		p.logger.Debug("running step", zap.String("step", step.Name))
		if err := step.Run(ctx); err != nil {
			p.logger.Error("step failed",
				zap.String("step", step.Name), zap.Error(err))
			return ctx, fmt.Errorf("%s/%s: %w", p.name, step.Name, err)
		}
	}
	return ctx, nil
}
