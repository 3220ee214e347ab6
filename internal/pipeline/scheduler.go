package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var timeRe = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm|h)?)\b`)

// NewScheduler builds the scheduling chain: find when, find what, then
// summarize the booking.
func NewScheduler(logger *zap.Logger) *Pipeline {
	return New("scheduler", logger,
		Step{Name: "extract_time", Run: extractTime},
		Step{Name: "extract_subject", Run: extractSubject},
		Step{Name: "summarize", Run: summarizeSchedule},
	)
}

func extractTime(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	for _, day := range []string{"today", "tomorrow", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		if strings.Contains(lower, day) {
			ctx.Fields["day"] = day
			break
		}
	}
	if m := timeRe.FindStringSubmatch(ctx.Input); m != nil {
		ctx.Fields["time"] = strings.TrimSpace(m[1])
	}
	if ctx.Fields["day"] == "" && ctx.Fields["time"] == "" {
		return fmt.Errorf("no day or time found in %q", ctx.Input)
	}
	return nil
}

func extractSubject(ctx *Context) error {
	lower := strings.ToLower(ctx.Input)
	for _, subject := range []string{"meeting", "appointment", "call", "review", "reuniao", "reunião"} {
		if strings.Contains(lower, subject) {
			ctx.Fields["subject"] = subject
			return nil
		}
	}
	ctx.Fields["subject"] = "event"
	return nil
}

func summarizeSchedule(ctx *Context) error {
	when := ctx.Fields["day"]
	if t := ctx.Fields["time"]; t != "" {
		if when != "" {
			when += " "
		}
		when += t
	}
	ctx.Result = fmt.Sprintf("scheduled %s for %s", ctx.Fields["subject"], when)
	return nil
}
