package agent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// routing maps keywords to task types, checked in order so the more
// specific categories win over generic ones.
var routing = []struct {
	taskType domain.TaskType
	keywords []string
}{
	{domain.TaskWhatsApp, []string{"whatsapp", "zap"}},
	{domain.TaskEmail, []string{"email", "e-mail", "inbox", "reply"}},
	{domain.TaskFinance, []string{"invoice", "payment", "fatura", "pagamento", "expense", "budget"}},
	{domain.TaskScheduler, []string{"schedule", "meeting", "appointment", "agendar", "reuniao", "reunião", "calendar"}},
	{domain.TaskDocument, []string{"document", "pdf", "contract", "organize", "file"}},
	{domain.TaskSupport, []string{"support", "issue", "problem", "ticket", "help", "suporte"}},
}

// Router is the user-facing agent: it routes free-text tasks to the
// specialized agents and answers knowledge questions with retrieved
// context.
type Router struct {
	searcher port.Searcher
	llm      port.LLM // nil when generation is disabled
	agents   map[domain.TaskType]port.Agent
	sink     port.MemorySink
	topK     int
	logger   *zap.Logger
}

func NewRouter(
	searcher port.Searcher,
	llm port.LLM,
	messenger port.Messenger,
	sink port.MemorySink,
	topK int,
	logger *zap.Logger,
) *Router {
	if topK <= 0 {
		topK = 5
	}
	return &Router{
		searcher: searcher,
		llm:      llm,
		agents: map[domain.TaskType]port.Agent{
			domain.TaskEmail:     NewEmailAgent(logger, sink),
			domain.TaskFinance:   NewFinanceAgent(logger, sink),
			domain.TaskScheduler: NewSchedulerAgent(logger, sink),
			domain.TaskDocument:  NewDocumentAgent(logger, sink),
			domain.TaskSupport:   NewSupportAgent(logger, sink),
			domain.TaskWhatsApp:  NewWhatsAppAgent(messenger, logger, sink),
		},
		sink:   sink,
		topK:   topK,
		logger: logger.Named("Router"),
	}
}

// Route classifies a task description by keywords. Descriptions that
// match no category become knowledge questions.
func (r *Router) Route(description string) domain.TaskType {
	lower := strings.ToLower(description)
	for _, rule := range routing {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.taskType
			}
		}
	}
	return domain.TaskKnowledgeQA
}

// Handle routes and executes one task, recording the outcome.
func (r *Router) Handle(description string) domain.TaskResult {
	taskType := r.Route(description)
	r.logger.Info("routing task",
		zap.String("task", description),
		zap.String("type", string(taskType)))

	var (
		result string
		err    error
	)
	if taskType == domain.TaskKnowledgeQA {
		result, err = r.answerQuestion(description)
	} else {
		result, err = r.agents[taskType].Handle(description)
	}

	out := domain.TaskResult{Success: err == nil, TaskType: taskType, Result: result}
	if err != nil {
		out.Error = err.Error()
	}

	if r.sink != nil {
		status := "completed"
		if err != nil {
			status = "failed"
		}
		if sinkErr := r.sink.SaveTask(string(taskType), description, status, result); sinkErr != nil {
			r.logger.Warn("failed to persist task", zap.Error(sinkErr))
		}
	}

	return out
}

// answerQuestion retrieves knowledge-base context and either asks the
// LLM or, without one, returns the snippets themselves. An empty
// search result means "no relevant context", never an error.
func (r *Router) answerQuestion(question string) (string, error) {
	results := r.searcher.Search(question, r.topK)

	if r.llm == nil {
		if len(results) == 0 {
			return "I could not find anything relevant in the knowledge base.", nil
		}
		var sb strings.Builder
		sb.WriteString("From the knowledge base:\n")
		for _, res := range results {
			fmt.Fprintf(&sb, "- [%s] %s\n", res.Source, res.Text)
		}
		return sb.String(), nil
	}

	prompt := question
	if len(results) > 0 {
		prompt = fmt.Sprintf("Context:\n%s\nQuestion: %s", contextBlock(results), question)
	}

	answer, err := r.llm.GenerateWithSystem(
		"You are Kaleb, a personal automation assistant. Answer using the provided context when it is relevant.",
		prompt,
	)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return answer, nil
}

func contextBlock(results []domain.SearchResult) string {
	var sb strings.Builder
	for _, res := range results {
		fmt.Fprintf(&sb, "- [%s] %s\n", res.Source, res.Text)
	}
	return sb.String()
}
