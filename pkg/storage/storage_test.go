package storage

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndReadFile(t *testing.T) {
	s := NewStorage(nil)
	path := filepath.Join(t.TempDir(), "reports", "alice.yaml")

	if s.HasFile(path) {
		t.Fatal("HasFile() = true before save")
	}
	if err := s.SaveFile(path, []byte("top:\n- word: the\n")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("HasFile() = false after save")
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "top:\n- word: the\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", stats.SizeBytes, len(data))
	}
}

func TestReadFile_Stdin(t *testing.T) {
	s := NewStorage(strings.NewReader("from stdin"))
	data, err := s.ReadFile(StdinPath)
	if err != nil {
		t.Fatalf("ReadFile(-) error = %v", err)
	}
	if string(data) != "from stdin" {
		t.Errorf("ReadFile(-) = %q", data)
	}
}

func TestReadFile_Missing(t *testing.T) {
	s := NewStorage(nil)
	if _, err := s.ReadFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("ReadFile() of missing file error = nil")
	}
}
