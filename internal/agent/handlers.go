package agent

import (
	"fmt"

	"go.uber.org/zap"

	"kalebbot/internal/domain"
	"kalebbot/internal/pipeline"
	"kalebbot/internal/port"
)

// pipelineAgent builds an agent that delegates its work to a pipeline
// and folds relevant memory context into the answer.
func pipelineAgent(name string, p *pipeline.Pipeline, logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return newBaseAgent(name, logger, sink, func(task string, memories []domain.Memory) (string, error) {
		pctx, err := p.Execute(task)
		if err != nil {
			return "", err
		}
		if ctx := memoryContext(memories); ctx != "" {
			return fmt.Sprintf("[%s] %s\nRelevant context:\n%s", name, pctx.Result, ctx), nil
		}
		return fmt.Sprintf("[%s] %s", name, pctx.Result), nil
	})
}

func NewEmailAgent(logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return pipelineAgent("EmailAgent", pipeline.NewEmail(logger), logger, sink)
}

func NewFinanceAgent(logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return pipelineAgent("FinanceAgent", pipeline.NewFinance(logger), logger, sink)
}

func NewSchedulerAgent(logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return pipelineAgent("SchedulerAgent", pipeline.NewScheduler(logger), logger, sink)
}

func NewDocumentAgent(logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return pipelineAgent("DocumentAgent", pipeline.NewDocument(logger, ""), logger, sink)
}

func NewSupportAgent(logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return pipelineAgent("SupportAgent", pipeline.NewSupport(logger), logger, sink)
}
