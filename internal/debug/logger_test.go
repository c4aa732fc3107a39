package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitWriter(t *testing.T) {
	defer Init(false)

	tests := []struct {
		name    string
		enable  bool
		wantLog bool
	}{
		{"enabled", true, true},
		{"disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitWriter(tt.enable, &buf)

			if Enabled() != tt.enable {
				t.Errorf("Enabled() = %v, want %v", Enabled(), tt.enable)
			}

			With("file", "a.rkt").Debug("renamed output")
			got := strings.Contains(buf.String(), "renamed output")
			if got != tt.wantLog {
				t.Errorf("log written = %v, want %v (output %q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestErrorsAlwaysHidden(t *testing.T) {
	defer Init(false)

	var buf bytes.Buffer
	InitWriter(false, &buf)
	Error("compiler failed")

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}
