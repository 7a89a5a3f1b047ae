// Package synth generates synthetic population recordings from YAML scenarios.
//
// A scenario describes the recording layout, the task conditions, and the
// time windows in which a fraction of neurons carries a label. Generated
// recordings exercise the whole decoding pipeline without lab data.
package synth

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a synthetic recording.
type Scenario struct {
	// Name uniquely identifies this scenario and names the recording.
	Name string `yaml:"name"`

	// Description explains what the scenario models.
	Description string `yaml:"description"`

	// Seed drives every random draw; the same scenario always generates the
	// same recording.
	Seed int64 `yaml:"seed"`

	Neurons  int     `yaml:"neurons"`
	Bins     int     `yaml:"bins"`
	Duration float64 `yaml:"duration"`

	// Days is the number of recording days, numbered from 1.
	Days int `yaml:"days"`

	Tasks []Task `yaml:"tasks"`

	// TrialsPerCondition is the trial count for every sample (and
	// distractor) combination of a task on a day.
	TrialsPerCondition int `yaml:"trials_per_condition"`

	// Noise is the standard deviation of the Gaussian background activity.
	Noise float64 `yaml:"noise"`

	// ErrorRate is the fraction of trials per condition whose choice
	// differs from the sample.
	ErrorRate float64 `yaml:"error_rate,omitempty"`

	Signals []Signal `yaml:"signals"`
}

// Task is one behavioural task. Tasks without a distractor label their
// trials with dataset.NoLabel.
type Task struct {
	Name       string `yaml:"name"`
	Distractor bool   `yaml:"distractor,omitempty"`
}

// Signal adds label-selective activity to a fraction of neurons inside the
// window [Start, End) seconds.
type Signal struct {
	// Label is "sample", "distractor", or "choice".
	Label     string  `yaml:"label"`
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	Amplitude float64 `yaml:"amplitude"`
	Fraction  float64 `yaml:"fraction"`

	// Tasks restricts the signal to the named tasks; empty means all.
	Tasks []string `yaml:"tasks,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Neurons <= 0 {
		return fmt.Errorf("neurons must be positive, got %d", s.Neurons)
	}
	if s.Bins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", s.Bins)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", s.Duration)
	}
	if s.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", s.Days)
	}
	if s.TrialsPerCondition <= 0 {
		return fmt.Errorf("trials_per_condition must be positive, got %d", s.TrialsPerCondition)
	}
	if s.Noise < 0 {
		return fmt.Errorf("noise must not be negative, got %v", s.Noise)
	}
	if s.ErrorRate < 0 || s.ErrorRate > 1 {
		return fmt.Errorf("error_rate must be in [0, 1], got %v", s.ErrorRate)
	}

	if len(s.Tasks) == 0 {
		return fmt.Errorf("tasks list is required and must be non-empty")
	}
	names := make(map[string]bool, len(s.Tasks))
	for i, task := range s.Tasks {
		if task.Name == "" {
			return fmt.Errorf("tasks[%d]: name is required", i)
		}
		if names[task.Name] {
			return fmt.Errorf("tasks[%d]: duplicate task %q", i, task.Name)
		}
		names[task.Name] = true
	}

	for i, sig := range s.Signals {
		switch sig.Label {
		case "sample", "distractor", "choice":
		default:
			return fmt.Errorf("signals[%d]: unknown label %q", i, sig.Label)
		}
		if sig.End <= sig.Start {
			return fmt.Errorf("signals[%d]: end %v must be after start %v", i, sig.End, sig.Start)
		}
		if sig.Fraction <= 0 || sig.Fraction > 1 {
			return fmt.Errorf("signals[%d]: fraction must be in (0, 1], got %v", i, sig.Fraction)
		}
		for _, name := range sig.Tasks {
			if !names[name] {
				return fmt.Errorf("signals[%d]: unknown task %q", i, name)
			}
		}
	}
	return nil
}
