package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalSourceList(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "source-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Two image files, one unrelated file, one nested image.
	writeFile(t, tmpDir, "B2-1.png", []byte("png-b"))
	writeFile(t, tmpDir, "A1-1.png", []byte("png-a"))
	writeFile(t, tmpDir, "notes.txt", []byte("ignore me"))
	if err := os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(tmpDir, "sub"), "C3-1.jpg", []byte("jpg-c"))

	src, err := NewLocalSource(tmpDir)
	if err != nil {
		t.Fatalf("NewLocalSource failed: %v", err)
	}
	defer src.Close()

	files, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("List returned %d files, want 3", len(files))
	}

	// Lexical walk order: A1-1.png, B2-1.png, sub/C3-1.jpg.
	wantNames := []string{"A1-1.png", "B2-1.png", "C3-1.jpg"}
	for i, f := range files {
		if f.Name != wantNames[i] {
			t.Errorf("files[%d].Name = %s, want %s", i, f.Name, wantNames[i])
		}
		if f.Seq != i {
			t.Errorf("files[%d].Seq = %d, want %d", i, f.Seq, i)
		}
	}
	if string(files[0].Data) != "png-a" {
		t.Errorf("files[0].Data = %q, want %q", files[0].Data, "png-a")
	}
}

func TestNewLocalSourceRejectsFile(t *testing.T) {
	tmp, err := os.CreateTemp("", "source-test-*")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())
	tmp.Close()

	if _, err := NewLocalSource(tmp.Name()); err == nil {
		t.Error("NewLocalSource should fail for a non-directory path")
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"A1-1.png", true},
		{"A1-1.PNG", true},
		{"A1-2.jpg", true},
		{"A1-2.jpeg", true},
		{"scan.tiff", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImageFile(tt.name); got != tt.expected {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
