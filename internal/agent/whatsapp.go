package agent

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"kalebbot/internal/domain"
	"kalebbot/internal/port"
)

// Recognized forms:
//   "send a whatsapp message to Maria: pick up the report"
//   "whatsapp to Maria saying the meeting moved"
var whatsappTaskRe = regexp.MustCompile(`(?i)(?:message |whatsapp )?to\s+([^:]+?)\s*(?:saying|that|:)\s+(.+)$`)

// NewWhatsAppAgent builds the agent that delivers messages through the
// given messenger.
func NewWhatsAppAgent(messenger port.Messenger, logger *zap.Logger, sink port.MemorySink) *BaseAgent {
	return newBaseAgent("WhatsAppAgent", logger, sink, func(task string, _ []domain.Memory) (string, error) {
		contact, message, ok := parseWhatsAppTask(task)
		if !ok {
			return "", fmt.Errorf("could not find contact and message in task; use 'to <contact>: <message>'")
		}
		if err := messenger.Send(contact, message); err != nil {
			return "", fmt.Errorf("failed to send whatsapp message: %w", err)
		}
		return fmt.Sprintf("[WhatsAppAgent] Message sent to %s", contact), nil
	})
}

func parseWhatsAppTask(task string) (contact, message string, ok bool) {
	m := whatsappTaskRe.FindStringSubmatch(task)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}
