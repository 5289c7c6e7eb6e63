package tutorial

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ScriptKind             = "tutorial"
	SupportedSchemaVersion = 1
)

//go:embed script.yaml
var defaultScript []byte

type Script struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	Steps         []StepText `yaml:"steps"`
	RulesMD       string     `yaml:"rules_md"`
}

type StepText struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// DefaultScript parses the embedded tutorial text.
func DefaultScript() (Script, error) {
	return ParseScript(defaultScript)
}

func ParseScript(b []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("parse tutorial script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s Script) Validate() error {
	if s.Kind != ScriptKind {
		return fmt.Errorf("tutorial script: kind must be %q, got %q", ScriptKind, s.Kind)
	}
	if s.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("tutorial script: unsupported schema_version %d", s.SchemaVersion)
	}
	if len(s.Steps) != int(StepDone)+1 {
		return fmt.Errorf("tutorial script: expected %d steps, got %d", int(StepDone)+1, len(s.Steps))
	}
	for i, st := range s.Steps {
		if st.ID != i {
			return fmt.Errorf("tutorial script: step %d has id %d", i, st.ID)
		}
		if strings.TrimSpace(st.Title) == "" {
			return fmt.Errorf("tutorial script: step %d has no title", i)
		}
	}
	return nil
}

// Text returns the copy for step, or a zero value for an inactive step.
func (s Script) Text(step Step) StepText {
	if step < 0 || int(step) >= len(s.Steps) {
		return StepText{ID: int(step)}
	}
	return s.Steps[step]
}
