package export

import (
	"bytes"
	"testing"

	"github.com/iksnae/water-eject/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	sessions := internal.CreateTestSessions(2, exportNow)

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(sessions, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var doc struct {
		Sessions []internal.EjectionSession `yaml:"sessions"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("YAMLExporter.Export() produced invalid YAML: %v", err)
	}
	if len(doc.Sessions) != 2 {
		t.Fatalf("decoded %d sessions, want 2", len(doc.Sessions))
	}
	if doc.Sessions[0].IntensityLevel != internal.IntensityHigh {
		t.Errorf("intensity = %s, want high", doc.Sessions[0].IntensityLevel)
	}
	if !doc.Sessions[0].StartedAt.Equal(exportNow) {
		t.Errorf("started_at = %v, want %v", doc.Sessions[0].StartedAt, exportNow)
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %v, want yaml", got)
	}
}
