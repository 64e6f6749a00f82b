package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Creates new directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data", "nested")

		if err := EnsureDirectory(dir, logger); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}

		stat, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Failed to stat directory: %v", err)
		}
		if !stat.IsDir() {
			t.Error("Directory was created but is not a directory")
		}
	})

	t.Run("Handles existing directory", func(t *testing.T) {
		dir := t.TempDir()

		if err := EnsureDirectory(dir, logger); err != nil {
			t.Errorf("Failed on existing directory: %v", err)
		}
	})

	t.Run("Fails: if path is a file", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "test-file")

		if file, err := os.Create(filePath); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		} else {
			file.Close()
		}

		if err := EnsureDirectory(filePath, logger); err == nil {
			t.Error("Expected error when path is a file, but got nil")
		}
	})
}

func TestMakeMap(t *testing.T) {
	m := MakeMap("place_id", "p1")
	if len(m) != 1 || m["place_id"] != "p1" {
		t.Errorf("unexpected map: %v", m)
	}
}
