package pipeline

import (
	"fmt"
	"sort"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single validation or lint result.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	JobID    string   `json:"job_id,omitempty"`
	Step     string   `json:"step,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	where := ""
	if f.JobID != "" {
		where = " [" + f.JobID
		if f.Step != "" {
			where += " / " + f.Step
		}
		where += "]"
	}
	return fmt.Sprintf("%s: %s%s: %s", f.Severity, f.Rule, where, f.Message)
}

// Validate checks the workflow's structure: it must declare a trigger
// and at least one job, every job needs steps, every step invokes
// exactly one of run or uses, and step names within a job must be
// unique so each name maps to a single command or action.
func (w *Workflow) Validate() []Finding {
	var findings []Finding

	if len(w.On.Events) == 0 {
		findings = append(findings, Finding{
			Rule:     "no-trigger",
			Severity: SeverityError,
			Message:  "workflow declares no trigger events",
		})
	}
	if len(w.Jobs) == 0 {
		findings = append(findings, Finding{
			Rule:     "no-jobs",
			Severity: SeverityError,
			Message:  "workflow declares no jobs",
		})
	}

	for _, jobID := range w.JobIDs() {
		job := w.Jobs[jobID]
		if job == nil || len(job.Steps) == 0 {
			findings = append(findings, Finding{
				Rule:     "no-steps",
				Severity: SeverityError,
				JobID:    jobID,
				Message:  "job declares no steps",
			})
			continue
		}

		for _, needed := range job.Needs {
			if _, ok := w.Jobs[needed]; !ok {
				findings = append(findings, Finding{
					Rule:     "unknown-needs",
					Severity: SeverityError,
					JobID:    jobID,
					Message:  fmt.Sprintf("needs references unknown job %q", needed),
				})
			}
		}

		seen := map[string]bool{}
		for i, step := range job.Steps {
			display := step.DisplayName()
			if display == "" {
				display = fmt.Sprintf("step %d", i+1)
			}

			switch {
			case step.Run != "" && step.Uses != "":
				findings = append(findings, Finding{
					Rule:     "ambiguous-step",
					Severity: SeverityError,
					JobID:    jobID,
					Step:     display,
					Message:  "step declares both run and uses",
				})
			case step.Run == "" && step.Uses == "":
				findings = append(findings, Finding{
					Rule:     "empty-step",
					Severity: SeverityError,
					JobID:    jobID,
					Step:     display,
					Message:  "step declares neither run nor uses",
				})
			}

			if step.Name != "" {
				if seen[step.Name] {
					findings = append(findings, Finding{
						Rule:     "duplicate-step-name",
						Severity: SeverityError,
						JobID:    jobID,
						Step:     step.Name,
						Message:  "step name is used more than once in this job",
					})
				}
				seen[step.Name] = true
			}
		}
	}

	return findings
}

// JobIDs returns the job identifiers in stable lexical order.
func (w *Workflow) JobIDs() []string {
	ids := make([]string, 0, len(w.Jobs))
	for id := range w.Jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasErrors reports whether any finding carries error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
