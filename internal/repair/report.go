package repair

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/magpie/internal/atomicfile"
)

// reportDoc is the YAML shape written by WriteReport. The duration is
// flattened to milliseconds so reports stay diffable.
type reportDoc struct {
	GeneratedAt string   `yaml:"generated_at"`
	DurationMs  int64    `yaml:"duration_ms"`
	Summary     *Summary `yaml:"summary"`
}

// WriteReport persists a run summary as YAML for later inspection or
// scripting against.
func WriteReport(path string, s *Summary) error {
	doc := reportDoc{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		DurationMs:  s.Duration.Milliseconds(),
		Summary:     s,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
