package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/water-eject/internal"
)

// JSONLExporter exports sessions in JSONL format (one session per line)
type JSONLExporter struct{}

// Export exports sessions to JSONL format
func (e *JSONLExporter) Export(sessions []*internal.EjectionSession, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, s := range sessions {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode session %s: %w", s.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
