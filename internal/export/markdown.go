package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/water-eject/internal"
)

// MarkdownExporter exports sessions as a Markdown table
type MarkdownExporter struct{}

// Export exports sessions to Markdown format
func (e *MarkdownExporter) Export(sessions []*internal.EjectionSession, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Ejection History\n\n")
	_, _ = fmt.Fprintf(w, "**Sessions:** %d\n\n", len(sessions))

	if len(sessions) == 0 {
		_, _ = fmt.Fprintf(w, "_No sessions recorded._\n")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| ID | Device | Intensity | Started | Status | Duration |\n")
	_, _ = fmt.Fprintf(w, "|---|---|---|---|---|---|\n")
	for _, s := range sessions {
		status := "open"
		duration := "—"
		if s.Completed {
			status = "completed"
			duration = fmt.Sprintf("%.1fs", s.ActualDuration)
		}
		_, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s |\n",
			s.ID, s.DeviceType, s.IntensityLevel, s.StartedAt.UTC().Format(time.RFC3339), status, duration)
		if err != nil {
			return fmt.Errorf("failed to write row %s: %w", s.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
