package world

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckVersionStampsFreshDirectory(t *testing.T) {
	dir := t.TempDir()

	if err := CheckVersion(dir); err != nil {
		t.Fatalf("CheckVersion on a fresh directory: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, versionFileName))
	if err != nil {
		t.Fatalf("version marker was not written: %v", err)
	}

	if string(data) != corpusFormatVersion+"\n" {
		t.Fatalf("version marker = %q, want %q", data, corpusFormatVersion+"\n")
	}
}

func TestCheckVersionAcceptsStampedDirectory(t *testing.T) {
	dir := t.TempDir()

	if err := CheckVersion(dir); err != nil {
		t.Fatalf("first CheckVersion: %v", err)
	}

	if err := CheckVersion(dir); err != nil {
		t.Fatalf("second CheckVersion on an already-stamped directory: %v", err)
	}
}

func TestCheckVersionRejectsIncompatibleMarker(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, versionFileName), []byte("2.0.0\n"), 0o644); err != nil {
		t.Fatalf("write version marker: %v", err)
	}

	if err := CheckVersion(dir); err == nil {
		t.Fatal("expected CheckVersion to reject a 2.0.0 marker against the ^1.0.0 constraint")
	}
}
