package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreComplete(t *testing.T) {
	entries := Defaults()
	if len(entries) != 10 {
		t.Fatalf("expected 10 built-in entries got %d", len(entries))
	}
	for i, qa := range entries {
		if qa.Question == "" || qa.Answer == "" {
			t.Fatalf("entry %d is incomplete: %+v", i, qa)
		}
	}
}

func TestLoadFilePreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.yaml")
	payload := `entries:
  - question: "First question?"
    answer: "First answer."
  - question: "Second question?"
    answer: "Second answer."
`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(entries))
	}
	if entries[0].Question != "First question?" || entries[1].Question != "Second question?" {
		t.Fatalf("order not preserved: %+v", entries)
	}
}

func TestLoadFileRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.yaml")
	payload := `entries:
  - question: "Only a question?"
`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for incomplete entry")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
