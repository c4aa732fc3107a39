package ui

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := Out, Err
	Out, Err = &out, &errOut
	t.Cleanup(func() { Out, Err = prevOut, prevErr })
	return &out, &errOut
}

func TestMessagesRouteToStreams(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("renamed %s", "a.rkt")
	PrintInfo("scanning %s", ".")
	PrintWarning("input file not found: %s", "b.rkt")
	PrintError("failed")

	if !strings.Contains(out.String(), "renamed a.rkt") || !strings.Contains(out.String(), "scanning .") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "input file not found: b.rkt") || !strings.Contains(errOut.String(), "failed") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestPrintTable(t *testing.T) {
	out, _ := captureOutput(t)

	err := PrintTable([]string{"Input", "Status"}, [][]string{{"a.rkt", "ok"}})
	if err != nil {
		t.Fatalf("PrintTable failed: %v", err)
	}
	if !strings.Contains(out.String(), "a.rkt") {
		t.Errorf("table output = %q", out.String())
	}
}

func TestModeLabel(t *testing.T) {
	for _, mode := range []string{"single", "batch", "other"} {
		if got := ModeLabel(mode); !strings.Contains(got, "["+mode+"]") {
			t.Errorf("ModeLabel(%q) = %q", mode, got)
		}
	}
}
