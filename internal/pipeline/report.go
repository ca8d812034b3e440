package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	passedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Report renders a terminal summary of a local run.
func Report(result *RunResult) string {
	var b strings.Builder

	name := result.Workflow
	if name == "" {
		name = "workflow"
	}
	b.WriteString(titleStyle.Render(name) + "\n")

	passed, failed, skipped := 0, 0, 0
	for _, step := range result.Steps {
		var line string
		switch step.Status {
		case StepPassed:
			passed++
			line = fmt.Sprintf("%s %s (%s)",
				passedStyle.Render("ok"), step.Step, roundDuration(step.Duration))
		case StepFailed:
			failed++
			line = fmt.Sprintf("%s %s (exit %d, %s)",
				failedStyle.Render("FAIL"), step.Step, step.ExitCode, roundDuration(step.Duration))
		case StepSkipped:
			skipped++
			line = fmt.Sprintf("%s %s", skippedStyle.Render("skip"), step.Step)
			if step.Reason != "" {
				line += " " + faintStyle.Render("("+step.Reason+")")
			}
		}
		b.WriteString("  " + line + "\n")

		if step.Status == StepFailed && strings.TrimSpace(step.Stderr) != "" {
			for _, errLine := range strings.Split(strings.TrimSpace(step.Stderr), "\n") {
				b.WriteString("      " + faintStyle.Render(errLine) + "\n")
			}
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		passed, failed, skipped, roundDuration(result.Duration))
	if result.Failed {
		b.WriteString(failedStyle.Render(summary) + "\n")
	} else {
		b.WriteString(passedStyle.Render(summary) + "\n")
	}
	return b.String()
}

func roundDuration(d time.Duration) time.Duration {
	return d.Round(10 * time.Millisecond)
}
