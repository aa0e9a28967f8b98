// Package testutil provides shared fixtures and assertions for the loader,
// resampler, and chart tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// WriteFixture writes contents to a file under t.TempDir() and returns its
// path.
func WriteFixture(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// AssertContiguousIndices fails the test unless indices are exactly 0..n-1.
func AssertContiguousIndices(t *testing.T, indices []int) {
	t.Helper()
	for i, ind := range indices {
		if ind != i {
			t.Fatalf("index %d = %d, want %d (indices must be contiguous from 0)", i, ind, i)
		}
	}
}
