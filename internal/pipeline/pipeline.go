// Package pipeline models the repository's CI workflow definition: a
// strict YAML codec, structural validation, lint rules for credential
// handling, and a minimal local runner for the declared steps.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when the workflow file contains no YAML
// document.
var ErrEmptyDocument = errors.New("workflow document is empty")

// Workflow represents a workflow definition file.
type Workflow struct {
	Name        string            `yaml:"name,omitempty"`
	On          Trigger           `yaml:"on"`
	Env         map[string]string `yaml:"env,omitempty"`
	Jobs        map[string]*Job   `yaml:"jobs"`
	Permissions any               `yaml:"permissions,omitempty"`
	Concurrency any               `yaml:"concurrency,omitempty"`
	Defaults    any               `yaml:"defaults,omitempty"`
}

// Job represents a job in a workflow.
type Job struct {
	Name            string            `yaml:"name,omitempty"`
	RunsOn          string            `yaml:"runs-on"`
	Steps           []*Step           `yaml:"steps"`
	Env             map[string]string `yaml:"env,omitempty"`
	Needs           StringList        `yaml:"needs,omitempty"`
	If              string            `yaml:"if,omitempty"`
	Strategy        any               `yaml:"strategy,omitempty"`
	Permissions     any               `yaml:"permissions,omitempty"`
	ContinueOnError bool              `yaml:"continue-on-error,omitempty"`
	TimeoutMinutes  int               `yaml:"timeout-minutes,omitempty"`
}

// Step represents a step in a job. A step invokes exactly one of a
// shell script (run) or an external action (uses).
type Step struct {
	ID               string            `yaml:"id,omitempty"`
	Name             string            `yaml:"name,omitempty"`
	Uses             string            `yaml:"uses,omitempty"`
	Run              string            `yaml:"run,omitempty"`
	With             map[string]any    `yaml:"with,omitempty"`
	Env              map[string]string `yaml:"env,omitempty"`
	If               string            `yaml:"if,omitempty"`
	Shell            string            `yaml:"shell,omitempty"`
	WorkingDirectory string            `yaml:"working-directory,omitempty"`
	ContinueOnError  bool              `yaml:"continue-on-error,omitempty"`
	TimeoutMinutes   int               `yaml:"timeout-minutes,omitempty"`
}

// Load reads and parses a workflow file.
func Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading workflow: %w", err)
	}
	workflow, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return workflow, nil
}

// Parse decodes a workflow document. Unknown fields are rejected so a
// mistyped step key surfaces as an error instead of a silently ignored
// setting.
func Parse(data []byte) (*Workflow, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var workflow Workflow
	if err := dec.Decode(&workflow); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("parsing workflow: %w", err)
	}
	return &workflow, nil
}

// DisplayName returns the step's name, falling back to the action
// reference or the first line of the script.
func (s *Step) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Uses != "" {
		return s.Uses
	}
	if line, _, found := strings.Cut(s.Run, "\n"); found {
		return line
	}
	return s.Run
}

// StringList decodes a YAML value that may be a single string or a
// sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}
