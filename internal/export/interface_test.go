package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/water-eject/internal"
)

func TestNewExporter(t *testing.T) {
	history := internal.CreateTestSessions(2, exportNow)

	tests := []struct {
		format    string
		wantExt   string
		wantEmpty string
	}{
		{format: "json", wantExt: "json", wantEmpty: "[]\n"},
		{format: "jsonl", wantExt: "jsonl", wantEmpty: ""},
		{format: "yaml", wantExt: "yaml", wantEmpty: "sessions: []\n"},
		{format: "md", wantExt: "md", wantEmpty: "_No sessions recorded._"},
		{format: "markdown", wantExt: "md", wantEmpty: "_No sessions recorded._"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}

			var buf bytes.Buffer
			if err := exporter.Export(history, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			for _, s := range history {
				if !strings.Contains(buf.String(), s.ID) {
					t.Errorf("Export() output missing session %s:\n%s", s.ID, buf.String())
				}
			}

			buf.Reset()
			if err := exporter.Export([]*internal.EjectionSession{}, &buf); err != nil {
				t.Fatalf("Export(empty) error = %v", err)
			}
			if tt.wantEmpty == "" {
				if buf.Len() != 0 {
					t.Errorf("Export(empty) = %q, want no output", buf.String())
				}
			} else if !strings.Contains(buf.String(), tt.wantEmpty) {
				t.Errorf("Export(empty) = %q, want it to contain %q", buf.String(), tt.wantEmpty)
			}
		})
	}
}

func TestNewExporter_Unsupported(t *testing.T) {
	for _, format := range []string{"", "xml", "JSON"} {
		if exporter, err := NewExporter(format); err == nil {
			t.Errorf("NewExporter(%q) = %T, want error", format, exporter)
		}
	}
}
