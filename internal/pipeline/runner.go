package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var stepsExecuted, _ = otel.Meter("elevator-data-generator/pipeline").
	Int64Counter("pipeline.steps.executed",
		metric.WithDescription("Steps the local workflow runner finished, by status"))

// StepStatus describes how a step ended.
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult captures one step of a local run.
type StepResult struct {
	JobID    string
	Step     string
	Status   StepStatus
	Reason   string // set when the step was skipped
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
}

// RunResult aggregates a local run.
type RunResult struct {
	Workflow string
	Steps    []StepResult
	Failed   bool
	Duration time.Duration
}

// Runner executes a workflow's steps locally: run steps go through the
// shell with the merged environment, uses steps are skipped since
// platform actions are not emulated. Steps run in declaration order
// and the first failure halts the run. Jobs run sequentially in job-ID
// order; needs only validates references.
type Runner struct {
	Secrets  Secrets
	Dir      string           // working directory for run steps
	Progress func(StepResult) // called after each step, optional
}

// Run executes the workflow and reports per-step results. The error
// return covers structural problems; step failures are reported in the
// result with Failed set.
func (r *Runner) Run(ctx context.Context, w *Workflow) (*RunResult, error) {
	if findings := w.Validate(); HasErrors(findings) {
		return nil, fmt.Errorf("workflow is not valid: %s", findings[0])
	}

	secrets := r.Secrets
	if secrets == nil {
		secrets = EnvSecrets{}
	}

	result := &RunResult{Workflow: w.Name}
	started := time.Now()

	for _, jobID := range w.JobIDs() {
		job := w.Jobs[jobID]
		for _, step := range job.Steps {
			stepResult := r.runStep(ctx, w, job, jobID, step, secrets)
			result.Steps = append(result.Steps, stepResult)
			stepsExecuted.Add(ctx, 1,
				metric.WithAttributes(attribute.String("status", string(stepResult.Status))))
			if r.Progress != nil {
				r.Progress(stepResult)
			}
			if stepResult.Status == StepFailed && !step.ContinueOnError {
				result.Failed = true
				result.Duration = time.Since(started)
				return result, nil
			}
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, w *Workflow, job *Job, jobID string, step *Step, secrets Secrets) StepResult {
	result := StepResult{JobID: jobID, Step: step.DisplayName(), Status: StepSkipped}

	switch {
	case step.Uses != "":
		result.Reason = "platform actions are not emulated locally"
		return result
	case step.If != "":
		result.Reason = "conditional steps are not evaluated locally"
		return result
	}

	shell := step.Shell
	if shell == "" {
		shell = "sh"
	}
	// Scripts written on Windows carry CRLF, which confuses the shell.
	script := strings.ReplaceAll(step.Run, "\r\n", "\n")

	stepCtx := ctx
	if step.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, time.Duration(step.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	cmd := exec.CommandContext(stepCtx, shell, "-c", script)
	cmd.Dir = r.Dir
	if step.WorkingDirectory != "" {
		if filepath.IsAbs(step.WorkingDirectory) || r.Dir == "" {
			cmd.Dir = step.WorkingDirectory
		} else {
			cmd.Dir = filepath.Join(r.Dir, step.WorkingDirectory)
		}
	}

	env := os.Environ()
	for k, v := range EffectiveEnv(w, job, step, secrets) {
		env = append(env, k+"="+v)
	}
	cmd.Env = env
	// Own process group, so killing a timed-out step takes its children.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stepStarted := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(stepStarted)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err == nil {
		result.Status = StepPassed
		return result
	}

	result.Status = StepFailed
	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.Stderr = strings.TrimSpace(result.Stderr + "\n" + err.Error())
	}
	return result
}
