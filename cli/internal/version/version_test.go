package version

import (
	"strings"
	"testing"
)

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		constraint string
		wantErr    bool
	}{
		{"no constraint", "0.1.0", "", false},
		{"satisfied", "0.1.0", ">= 0.1", false},
		{"range satisfied", "0.3.2", ">= 0.2, < 1.0", false},
		{"too old", "0.1.0", ">= 0.2", true},
		{"too new", "1.2.0", "~> 0.9", true},
		{"dev build", "dev", ">= 5.0", false},
		{"bad constraint", "0.1.0", "newest", true},
		{"bad version", "not-a-version", ">= 0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(tt.current, tt.constraint)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckVersion(%q, %q) error = %v, wantErr %v", tt.current, tt.constraint, err, tt.wantErr)
			}
		})
	}
}

func TestInfoStrings(t *testing.T) {
	info := Get()
	if !strings.Contains(info.String(), info.Version) {
		t.Errorf("String() = %q, missing version", info.String())
	}
	if !strings.Contains(info.FullString(), "Git Commit: "+info.GitCommit) {
		t.Errorf("FullString() = %q", info.FullString())
	}
}
