package usecase

import (
	"fmt"
	"strings"

	"github.com/Business010101/aimodbot/pkg/domain/model"
)

// FormatPlan renders a plan as a numbered list for the confirmation prompt
func FormatPlan(actions model.ActionList) string {
	var sb strings.Builder
	for i, a := range actions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a.String())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatOutcomes renders per-action results plus a success/failure tally
func FormatOutcomes(outcomes []model.ActionOutcome) string {
	var sb strings.Builder
	for _, o := range outcomes {
		if o.Succeeded {
			fmt.Fprintf(&sb, "✅ %s\n", o.Action.String())
		} else {
			fmt.Fprintf(&sb, "❌ %s: %s\n", o.Action.String(), o.Error)
		}
	}

	succeeded, failed := model.CountOutcomes(outcomes)
	fmt.Fprintf(&sb, "%d succeeded, %d failed", succeeded, failed)
	return sb.String()
}
