package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Matches "R$ 1.234,56", "$99.90", "250,00" and bare integers.
var amountRe = regexp.MustCompile(`(?:R\$|\$)?\s*(\d{1,3}(?:\.\d{3})*,\d{2}|\d+(?:\.\d{2})?)`)

// approvalThreshold is the amount above which a payment needs manual
// approval before it is executed.
const approvalThreshold = 1000.0

// NewFinance builds the finance chain: extract the amount, decide
// whether it needs approval, then summarize.
func NewFinance(logger *zap.Logger) *Pipeline {
	return New("finance", logger,
		Step{Name: "extract_amount", Run: extractAmount},
		Step{Name: "check_approval", Run: checkApproval},
		Step{Name: "summarize", Run: summarizeFinance},
	)
}

func extractAmount(ctx *Context) error {
	m := amountRe.FindStringSubmatch(ctx.Input)
	if m == nil {
		return fmt.Errorf("no amount found in %q", ctx.Input)
	}
	ctx.Fields["amount"] = m[1]
	return nil
}

func checkApproval(ctx *Context) error {
	value, err := parseAmount(ctx.Fields["amount"])
	if err != nil {
		return err
	}
	if value > approvalThreshold {
		ctx.Fields["approval"] = "required"
	} else {
		ctx.Fields["approval"] = "auto"
	}
	return nil
}

func summarizeFinance(ctx *Context) error {
	ctx.Result = fmt.Sprintf("finance task: amount=%s approval=%s",
		ctx.Fields["amount"], ctx.Fields["approval"])
	return nil
}

// parseAmount normalizes Brazilian ("1.234,56") and plain ("1234.56")
// notations to a float.
func parseAmount(raw string) (float64, error) {
	s := raw
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return value, nil
}
