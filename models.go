package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Task File Structs ---

type TaskFile struct {
	Tasks []TaskRecord `json:"tasks" yaml:"tasks"`
}

type TaskRecord struct {
	ID           string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string         `json:"name" yaml:"name"`
	Start        string         `json:"start,omitempty" yaml:"start,omitempty"` // "2006-01-02" or with time
	End          string         `json:"end,omitempty" yaml:"end,omitempty"`     // inclusive when date-only
	Progress     float64        `json:"progress,omitempty" yaml:"progress,omitempty"`
	Dependencies DependencyList `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	CustomClass  string         `json:"custom_class,omitempty" yaml:"custom_class,omitempty"`
	CSSClass     string         `json:"css_class,omitempty" yaml:"css_class,omitempty"`
	Fill         string         `json:"fill,omitempty" yaml:"fill,omitempty"`
	TextAlign    string         `json:"text_align,omitempty" yaml:"text_align,omitempty"`
	Header       bool           `json:"header,omitempty" yaml:"header,omitempty"`
	Disabled     bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Draggable    *bool          `json:"draggable,omitempty" yaml:"draggable,omitempty"`
	Periods      []PeriodRecord `json:"periods,omitempty" yaml:"periods,omitempty"`
}

type PeriodRecord struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Start       string `json:"start" yaml:"start"`
	End         string `json:"end" yaml:"end"`
	CustomClass string `json:"custom_class,omitempty" yaml:"custom_class,omitempty"`
	CSSClass    string `json:"css_class,omitempty" yaml:"css_class,omitempty"`
	Fill        string `json:"fill,omitempty" yaml:"fill,omitempty"`
	Disabled    bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Draggable   *bool  `json:"draggable,omitempty" yaml:"draggable,omitempty"`
}

// DependencyList accepts either a list of ids or a comma separated string.
type DependencyList []string

func splitDependencies(s string) DependencyList {
	var out DependencyList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (d *DependencyList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = splitDependencies(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("dependencies must be a string or a list of strings: %w", err)
	}
	*d = list
	return nil
}

func (d *DependencyList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*d = splitDependencies(node.Value)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return fmt.Errorf("dependencies must be a string or a list of strings: %w", err)
	}
	*d = list
	return nil
}
