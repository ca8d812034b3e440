package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Event is a single trigger event, with branch filters when given.
type Event struct {
	Name     string
	Branches []string
}

// Trigger is the decoded on: block. The platform accepts a bare event
// name, a list of events, or a mapping of events to filters; all three
// forms normalize to Events.
type Trigger struct {
	Events []Event
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Trigger) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return err
		}
		t.Events = []Event{{Name: name}}
		return nil

	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		t.Events = make([]Event, 0, len(names))
		for _, name := range names {
			t.Events = append(t.Events, Event{Name: name})
		}
		return nil

	case yaml.MappingNode:
		t.Events = make([]Event, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			keyNode, valNode := value.Content[i], value.Content[i+1]

			var name string
			if err := keyNode.Decode(&name); err != nil {
				return err
			}
			event := Event{Name: name}

			if valNode.Kind == yaml.MappingNode {
				var filters struct {
					Branches StringList `yaml:"branches"`
				}
				if err := valNode.Decode(&filters); err != nil {
					return fmt.Errorf("trigger %s: %w", name, err)
				}
				event.Branches = filters.Branches
			}
			t.Events = append(t.Events, event)
		}
		return nil

	default:
		return fmt.Errorf("line %d: on: must be a string, a list, or a mapping", value.Line)
	}
}

// Has reports whether the trigger includes the named event.
func (t *Trigger) Has(name string) bool {
	for _, event := range t.Events {
		if event.Name == name {
			return true
		}
	}
	return false
}
