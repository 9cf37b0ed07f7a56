package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/water-eject/internal"
)

var exportNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		sessions []*internal.EjectionSession
		wantLen  int
	}{
		{name: "history", sessions: internal.CreateTestSessions(3, exportNow), wantLen: 3},
		{name: "empty history", sessions: nil, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.sessions, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var decoded []map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("JSONExporter.Export() produced invalid JSON: %v", err)
			}
			if len(decoded) != tt.wantLen {
				t.Errorf("decoded %d sessions, want %d", len(decoded), tt.wantLen)
			}
			if tt.wantLen > 0 {
				if decoded[0]["id"] != "session-0" {
					t.Errorf("first id = %v, want session-0", decoded[0]["id"])
				}
				if decoded[0]["device_type"] != "phone" {
					t.Errorf("device_type = %v, want phone", decoded[0]["device_type"])
				}
			}
			if !strings.Contains(buf.String(), "\n  ") && tt.wantLen > 0 {
				t.Error("JSONExporter.Export() output should be indented")
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("Extension() = %v, want json", got)
	}
}
