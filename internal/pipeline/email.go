package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewEmail builds the email handling chain: priority triage, action
// detection, then a summary of what would be done.
func NewEmail(logger *zap.Logger) *Pipeline {
	return New("email", logger,
		Step{Name: "detect_priority", Run: detectEmailPriority},
		Step{Name: "detect_action", Run: detectEmailAction},
		Step{Name: "summarize", Run: summarizeEmail},
	)
}

func detectEmailPriority(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	switch {
	case strings.Contains(lower, "urgent"), strings.Contains(lower, "asap"):
		ctx.Fields["priority"] = "high"
	case strings.Contains(lower, "later"), strings.Contains(lower, "tomorrow"):
		ctx.Fields["priority"] = "low"
	default:
		ctx.Fields["priority"] = "normal"
	}
	return nil
}

func detectEmailAction(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	for _, action := range []string{"reply", "forward", "archive"} {
		if strings.Contains(lower, action) {
			ctx.Fields["action"] = action
			return nil
		}
	}
	ctx.Fields["action"] = "classify"
	return nil
}

func summarizeEmail(ctx *Context) error {
	ctx.Result = fmt.Sprintf("email task: action=%s priority=%s",
		ctx.Fields["action"], ctx.Fields["priority"])
	return nil
}
