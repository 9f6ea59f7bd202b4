package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadAnalyzeInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	content := `{
		"documents": [{"filename": "guide.pdf"}, {"filename": "hotels.pdf"}],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a 4-day trip"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	input, err := readAnalyzeInput(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(input.Documents) != 2 || input.Documents[0].Filename != "guide.pdf" {
		t.Errorf("documents: %+v", input.Documents)
	}
	if input.Persona.Role != "Travel Planner" {
		t.Errorf("role: got %q", input.Persona.Role)
	}
	if input.JobToBeDone.Task != "Plan a 4-day trip" {
		t.Errorf("task: got %q", input.JobToBeDone.Task)
	}
}

func TestReadAnalyzeInputInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readAnalyzeInput(path); err == nil {
		t.Error("expected parse error")
	}
	if _, err := readAnalyzeInput(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected read error")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	// Run from an empty directory so no development config.yaml is found.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	cfg, source, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if source != "(defaults)" {
		t.Errorf("source: got %q", source)
	}
	if cfg.Pipeline.TopK != 20 {
		t.Errorf("TopK default: got %d", cfg.Pipeline.TopK)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeJSON(path, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Error("output should end with a newline")
	}
}
