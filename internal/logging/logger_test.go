package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggingIsNoop(t *testing.T) {
	if err := Initialize("", false, "info"); err != nil {
		t.Fatalf("Initialize with debug off should not fail: %v", err)
	}
	defer Shutdown()

	// Must not panic or create files.
	Pipeline("stage %d complete", 1)
	ReasoningError("boom")
}

func TestCategoryFilesCreated(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "debug"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer Shutdown()

	Pipeline("run started with %d sources", 2)
	Assessment("activity %s assessed", "act-1")

	pipelineLog := filepath.Join(dir, ".careguide", "logs", "pipeline.log")
	data, err := os.ReadFile(pipelineLog)
	if err != nil {
		t.Fatalf("pipeline log not written: %v", err)
	}
	if !strings.Contains(string(data), "run started with 2 sources") {
		t.Errorf("pipeline log missing entry, got: %s", data)
	}

	if _, err := os.Stat(filepath.Join(dir, ".careguide", "logs", "assessment.log")); err != nil {
		t.Errorf("assessment log not created: %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	if err := Initialize(dir, true, "error"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer Shutdown()

	Reasoning("info suppressed")
	ReasoningError("error kept")

	data, err := os.ReadFile(filepath.Join(dir, ".careguide", "logs", "reasoning.log"))
	if err != nil {
		t.Fatalf("reasoning log not written: %v", err)
	}
	if strings.Contains(string(data), "info suppressed") {
		t.Error("info entry should be filtered at error level")
	}
	if !strings.Contains(string(data), "error kept") {
		t.Error("error entry missing")
	}
}
