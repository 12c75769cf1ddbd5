package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TaskProfile describes one screening task type known to the service.
type TaskProfile struct {
	Type              string              `yaml:"type"`
	Title             string              `yaml:"title"`
	Description       string              `yaml:"description"`
	ExpectedDurationS float64             `yaml:"expected_duration_s"`
	MarkerNotes       map[string]string   `yaml:"marker_notes"`
}

// TaskCatalog holds all task profiles.
type TaskCatalog struct {
	Tasks []TaskProfile `yaml:"tasks"`
}

// LoadTaskCatalog reads and parses the tasks.yaml file.
func LoadTaskCatalog(path string) (*TaskCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task catalog: %w", err)
	}

	var catalog TaskCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task catalog YAML: %w", err)
	}

	return &catalog, nil
}

// Profile returns the profile for a task type, or nil if unknown. Unknown
// task types are still scoreable; the profile only enriches marker text.
func (c *TaskCatalog) Profile(taskType string) *TaskProfile {
	for i := range c.Tasks {
		if c.Tasks[i].Type == taskType {
			return &c.Tasks[i]
		}
	}
	return nil
}
