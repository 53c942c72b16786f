package misc

import "testing"

func TestBuildValues(t *testing.T) {
	if GetAppName() != "pxrem" {
		t.Errorf("GetAppName() = %q, want pxrem", GetAppName())
	}
	if GetVersion() == "" {
		t.Error("GetVersion() returned empty string")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() returned empty string")
	}
}
