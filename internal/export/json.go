package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/water-eject/internal"
)

// JSONExporter exports sessions as one pretty-printed JSON array
type JSONExporter struct{}

// Export exports sessions to JSON format
func (e *JSONExporter) Export(sessions []*internal.EjectionSession, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if sessions == nil {
		sessions = []*internal.EjectionSession{}
	}
	return enc.Encode(sessions)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
