package export

import (
	"io"

	"github.com/iksnae/water-eject/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// Export exports sessions to YAML format
func (e *YAMLExporter) Export(sessions []*internal.EjectionSession, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	doc := struct {
		Sessions []*internal.EjectionSession `yaml:"sessions"`
	}{Sessions: sessions}
	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
