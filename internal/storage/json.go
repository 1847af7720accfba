// Package storage persists report records as pretty-printed JSON arrays,
// merging new records into whatever is already on disk.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// JSONAppender appends records to a JSON array file. Prior file states
// are handled leniently: an array grows, a single object becomes a
// one-element array, and anything unreadable is backed up byte-for-byte
// and replaced rather than failing the run.
type JSONAppender struct {
	logger *slog.Logger
}

// NewJSONAppender creates a JSON report sink.
func NewJSONAppender(logger *slog.Logger) *JSONAppender {
	return &JSONAppender{
		logger: logger.With("component", "json_storage"),
	}
}

// Append merges records (any slice of JSON-marshalable values) into the
// array at path and rewrites the file with stable two-space indentation.
// Non-ASCII characters are written unescaped.
func (a *JSONAppender) Append(records any, path string) error {
	newEntries, err := toEntries(records)
	if err != nil {
		return err
	}

	existing := a.loadExisting(path)
	existing = append(existing, newEntries...)
	if existing == nil {
		existing = []json.RawMessage{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(existing); err != nil {
		return fmt.Errorf("encode report %s: %w", path, err)
	}

	a.logger.Info("report written", "path", path, "new_records", len(newEntries), "total", len(existing))
	return nil
}

// loadExisting reads whatever is at path and normalizes it to an array of
// entries. Only a JSON array or a single JSON object is accepted; any
// other non-empty content (whitespace, `null`, bare literals, garbage) is
// backed up and discarded.
func (a *JSONAppender) loadExisting(path string) []json.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("could not read existing report, starting fresh", "path", path, "error", err)
		}
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			var arr []json.RawMessage
			if err := json.Unmarshal(trimmed, &arr); err == nil {
				return arr
			}
		case '{':
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(trimmed, &obj); err == nil {
				// A single record written by hand; treat it as a one-element array.
				return []json.RawMessage{json.RawMessage(trimmed)}
			}
		}
	}

	a.logger.Error("existing report is not a JSON array or object, backing up and resetting", "path", path)
	a.backup(path, data)
	return nil
}

// backup preserves the original corrupted bytes next to the report file.
func (a *JSONAppender) backup(path string, data []byte) {
	backupPath := filepath.Join(filepath.Dir(path), "backup_"+filepath.Base(path))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		a.logger.Error("failed to write backup file", "path", backupPath, "error", err)
		return
	}
	a.logger.Info("backup created", "path", backupPath)
}

// toEntries normalizes a slice of records into raw JSON entries.
func toEntries(records any) ([]json.RawMessage, error) {
	buf, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(buf, &entries); err != nil {
		return nil, fmt.Errorf("records must be a slice: %w", err)
	}
	return entries, nil
}
