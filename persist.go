package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// fileDocument is the on-disk form. Selection is editor state and is not
// saved. Element ids are kept as they are in both directions.
type fileDocument struct {
	Version  int       `json:"version"`
	Settings Settings  `json:"settings"`
	Elements []Element `json:"elements"`
}

func MarshalDocument(doc Document) ([]byte, error) {
	fd := fileDocument{
		Version:  documentVersion,
		Settings: doc.Settings,
		Elements: doc.Elements,
	}
	if fd.Elements == nil {
		fd.Elements = []Element{}
	}
	return json.MarshalIndent(fd, "", "  ")
}

// UnmarshalDocument decodes and validates a whole document. Any problem
// rejects all of it.
func UnmarshalDocument(data []byte) (Document, error) {
	var fd fileDocument
	if err := json.Unmarshal(data, &fd); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fd.Version != documentVersion {
		return Document{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, fd.Version)
	}
	if err := fd.Settings.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: settings: %v", ErrMalformed, err)
	}
	seen := make(map[string]struct{}, len(fd.Elements))
	for i := range fd.Elements {
		el := &fd.Elements[i]
		if err := el.Validate(); err != nil {
			return Document{}, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
		if _, dup := seen[el.ID]; dup {
			return Document{}, fmt.Errorf("%w: duplicate element id %q", ErrMalformed, el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	doc := NewDocument(fd.Settings)
	doc.Elements = append(doc.Elements, fd.Elements...)
	return doc, nil
}

// SaveDocument writes atomically: temp file, fsync, rename.
func SaveDocument(path string, doc Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".easel-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}

func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return UnmarshalDocument(data)
}
