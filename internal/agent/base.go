// Package agent implements the task handlers behind the router:
// specialized agents for email, finance, scheduling, documents,
// support and WhatsApp messaging, each with a rolling context window
// and a keyword-indexed memory of past interactions.
package agent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// processFunc produces an agent's answer given the task and the
// memories judged relevant to it.
type processFunc func(task string, memories []domain.Memory) (string, error)

// BaseAgent carries the shared behavior: history, memory retrieval,
// memory storage, and durable persistence through the optional sink.
type BaseAgent struct {
	name    string
	logger  *zap.Logger
	context *ContextManager
	memory  *MemoryStore
	sink    port.MemorySink
	process processFunc
}

func newBaseAgent(name string, logger *zap.Logger, sink port.MemorySink, process processFunc) *BaseAgent {
	return &BaseAgent{
		name:    name,
		logger:  logger.Named(name),
		context: NewContextManager(),
		memory:  NewMemoryStore(),
		sink:    sink,
		process: process,
	}
}

func (a *BaseAgent) Name() string { return a.name }

// Handle processes a task with memory context and records the outcome.
func (a *BaseAgent) Handle(task string) (string, error) {
	a.logger.Info("handling task", zap.String("task", task))

	memories := a.memory.Relevant(task)
	result, err := a.process(task, memories)
	if err != nil {
		a.logger.Error("task failed", zap.Error(err))
		return "", fmt.Errorf("%s: %w", a.name, err)
	}

	stored := a.memory.Store(a.name, task, result)
	a.context.Add(stored)

	if a.sink != nil {
		if err := a.sink.SaveMemory(a.name, task, result); err != nil {
			// Persistence problems never fail the task itself.
			a.logger.Warn("failed to persist memory", zap.Error(err))
		}
	}

	return result, nil
}

// History exposes the agent's rolling interaction window.
func (a *BaseAgent) History() []domain.Memory {
	return a.context.History()
}

// memoryContext renders up to three prior interactions the way the
// specialized agents fold them into responses.
func memoryContext(memories []domain.Memory) string {
	if len(memories) == 0 {
		return ""
	}
	if len(memories) > 3 {
		memories = memories[:3]
	}
	var sb strings.Builder
	for _, m := range memories {
		fmt.Fprintf(&sb, "Previous interaction: %s -> %s\n", m.Task, m.Result)
	}
	return sb.String()
}
