package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/water-eject/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		sessions []*internal.EjectionSession
		want     []string
	}{
		{
			name:     "history",
			sessions: internal.CreateTestSessions(2, exportNow),
			want: []string{
				"# Ejection History",
				"**Sessions:** 2",
				"| ID | Device | Intensity | Started | Status | Duration |",
				"| session-0 | phone | high | 2025-06-15T12:00:00Z | completed | 118.0s |",
				"| session-1 | phone | high | 2025-06-15T11:00:00Z | open | — |",
			},
		},
		{
			name:     "empty",
			sessions: nil,
			want:     []string{"**Sessions:** 0", "_No sessions recorded._"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.sessions, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("MarkdownExporter.Export() missing %q\n%s", want, out)
				}
			}
		})
	}
}
