package pipeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewSupport builds the support chain: severity triage, category
// detection, ticket creation.
func NewSupport(logger *zap.Logger) *Pipeline {
	return New("support", logger,
		Step{Name: "detect_severity", Run: detectSeverity},
		Step{Name: "detect_category", Run: detectCategory},
		Step{Name: "open_ticket", Run: openTicket},
	)
}

func detectSeverity(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	switch {
	case strings.Contains(lower, "outage"), strings.Contains(lower, "down"), strings.Contains(lower, "data loss"):
		ctx.Fields["severity"] = "critical"
	case strings.Contains(lower, "urgent"), strings.Contains(lower, "broken"):
		ctx.Fields["severity"] = "high"
	default:
		ctx.Fields["severity"] = "normal"
	}
	return nil
}

func detectCategory(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	switch {
	case strings.Contains(lower, "billing"), strings.Contains(lower, "charge"), strings.Contains(lower, "refund"):
		ctx.Fields["category"] = "billing"
	case strings.Contains(lower, "login"), strings.Contains(lower, "password"), strings.Contains(lower, "account"):
		ctx.Fields["category"] = "account"
	case strings.Contains(lower, "error"), strings.Contains(lower, "crash"), strings.Contains(lower, "bug"):
		ctx.Fields["category"] = "technical"
	default:
		ctx.Fields["category"] = "general"
	}
	return nil
}

func openTicket(ctx *Context) error {
	ctx.Fields["ticket"] = uuid.NewString()
	ctx.Result = fmt.Sprintf("ticket %s opened (severity=%s category=%s)",
		ctx.Fields["ticket"], ctx.Fields["severity"], ctx.Fields["category"])
	return nil
}
