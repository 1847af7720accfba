package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pricestalk/pricestalk/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	return entries
}

func TestAppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phase1_results.json")
	a := NewJSONAppender(testLogger)

	records := []types.ProductRecord{
		{SKU: "30061292", Name: "Palmolive Naturals Shampoo 350ml", Price: "$3.45", Date: "2026-08-26"},
	}
	if err := a.Append(records, path); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0]["Product Name"] != "Palmolive Naturals Shampoo 350ml" {
		t.Errorf("unexpected entry: %v", entries[0])
	}
}

func TestAppendGrowsExistingArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	a := NewJSONAppender(testLogger)

	first := []types.ProductRecord{
		{SKU: "1", Name: "First", Price: "$1.00", Date: "2026-08-25"},
		{SKU: "2", Name: "Second", Price: "$2.00", Date: "2026-08-25"},
	}
	if err := a.Append(first, path); err != nil {
		t.Fatalf("first append: %v", err)
	}

	second := []types.ProductRecord{
		{SKU: "3", Name: "Third", Price: "$3.00", Date: "2026-08-26"},
	}
	if err := a.Append(second, path); err != nil {
		t.Fatalf("second append: %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Prior entries keep their field values unchanged.
	if entries[0]["SKU"] != "1" || entries[0]["Price"] != "$1.00" {
		t.Errorf("prior entry mutated: %v", entries[0])
	}
	if entries[2]["SKU"] != "3" {
		t.Errorf("new entry missing: %v", entries[2])
	}
}

func TestAppendWrapsSingleObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, []byte(`{"SKU": "old", "Price": "$9.99"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewJSONAppender(testLogger)
	records := []types.ProductRecord{{SKU: "new", Name: "New", Price: "$1.00", Date: "2026-08-26"}}
	if err := a.Append(records, path); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected object wrapped plus new record, got %d entries", len(entries))
	}
	if entries[0]["SKU"] != "old" {
		t.Errorf("original object lost: %v", entries[0])
	}
}

func TestAppendBacksUpCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	corrupt := []byte(`{"SKU": "broken", `)
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewJSONAppender(testLogger)
	records := []types.ProductRecord{{SKU: "new", Name: "New", Price: "$1.00", Date: "2026-08-26"}}
	if err := a.Append(records, path); err != nil {
		t.Fatalf("append: %v", err)
	}

	backup, err := os.ReadFile(filepath.Join(dir, "backup_out.json"))
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if string(backup) != string(corrupt) {
		t.Errorf("backup is not a byte copy: %q", backup)
	}

	entries := readEntries(t, path)
	if len(entries) != 1 || entries[0]["SKU"] != "new" {
		t.Errorf("fresh output should hold only the new records: %v", entries)
	}
}

func TestAppendBacksUpNonContainerContent(t *testing.T) {
	// Anything that is not a JSON array or object counts as corrupt, even
	// when it parses as a JSON value.
	tests := []struct {
		name    string
		content string
	}{
		{"json null literal", "null"},
		{"whitespace only", "  \n\t "},
		{"bare string", `"not a report"`},
		{"bare number", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			a := NewJSONAppender(testLogger)
			records := []types.ProductRecord{{SKU: "new", Name: "New", Price: "$1.00", Date: "2026-08-26"}}
			if err := a.Append(records, path); err != nil {
				t.Fatalf("append: %v", err)
			}

			backup, err := os.ReadFile(filepath.Join(dir, "backup_out.json"))
			if err != nil {
				t.Fatalf("original content discarded without backup: %v", err)
			}
			if string(backup) != tt.content {
				t.Errorf("backup is not a byte copy: %q", backup)
			}

			entries := readEntries(t, path)
			if len(entries) != 1 || entries[0]["SKU"] != "new" {
				t.Errorf("fresh output should hold only the new records: %v", entries)
			}
		})
	}
}

func TestAppendEmptyFileNotBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewJSONAppender(testLogger)
	records := []types.ProductRecord{{SKU: "new", Name: "New", Price: "$1.00", Date: "2026-08-26"}}
	if err := a.Append(records, path); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "backup_out.json")); !os.IsNotExist(err) {
		t.Error("zero-byte file should not produce a backup")
	}
	if entries := readEntries(t, path); len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestAppendPreservesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	a := NewJSONAppender(testLogger)

	records := []types.ProductRecord{{SKU: "1", Name: "Müsli Crunchy 500g", Price: "$6.00", Date: "2026-08-26"}}
	if err := a.Append(records, path); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Müsli") {
		t.Errorf("non-ASCII characters escaped in output: %s", data)
	}
}

func TestAppendRejectsNonSlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	a := NewJSONAppender(testLogger)

	if err := a.Append(types.ProductRecord{SKU: "1"}, path); err == nil {
		t.Error("expected error for non-slice records")
	}
}
