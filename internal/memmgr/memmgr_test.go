package memmgr

import (
	"path/filepath"
	"testing"

	"qpaging/internal/vmpage"
)

func TestNewSizesFileToStateVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	m, err := New(10, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	if got, want := len(m.Region()), int(vmpage.TotalBytes(10)); got != want {
		t.Errorf("region size = %d, want %d", got, want)
	}
	if m.NumPages() != vmpage.TotalPages(10) {
		t.Errorf("NumPages = %d, want %d", m.NumPages(), vmpage.TotalPages(10))
	}
	for p := 0; p < m.NumPages(); p++ {
		if !m.Resident(p) {
			t.Errorf("page %d not resident at construction, want true", p)
		}
	}
}

func TestEvictIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	m, err := New(8, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	m.Evict(0)
	if m.Resident(0) {
		t.Errorf("page 0 resident after Evict, want false")
	}
	m.Evict(0) // must not panic or double-flip
	if m.Resident(0) {
		t.Errorf("page 0 resident after second Evict, want false")
	}
}

func TestMarkWantedRestoresResidency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	m, err := New(8, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	m.Evict(0)
	m.MarkWanted(0)
	if !m.Resident(0) {
		t.Errorf("page 0 not resident after MarkWanted, want true")
	}
}

func TestFlushAndCloseSucceed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	m, err := New(8, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	region := m.Region()
	region[0] = 0xFF
	if err := m.Flush(); err != nil {
		t.Errorf("Flush: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestPathReturnsBackingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	m, err := New(8, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()
	if m.Path() != path {
		t.Errorf("Path() = %q, want %q", m.Path(), path)
	}
}
