package migrate

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/chirp/chirp/migrations"
)

func TestSource_Embedded(t *testing.T) {
	src, err := Source(migrations.FS)
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	first, err := src.First()
	if err != nil || first != 1 {
		t.Fatalf("First = %d, %v; want 1", first, err)
	}
	next, err := src.Next(first)
	if err != nil || next != 2 {
		t.Fatalf("Next(1) = %d, %v; want 2", next, err)
	}
	if _, err := src.Next(next); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Next(2) = %v, want fs.ErrNotExist", err)
	}

	testCases := []struct {
		version uint
		name    string
	}{
		{1, "users"},
		{2, "posts"},
	}

	for _, tc := range testCases {
		up, identifier, err := src.ReadUp(tc.version)
		if err != nil {
			t.Fatalf("ReadUp(%d) failed: %v", tc.version, err)
		}
		body, _ := io.ReadAll(up)
		up.Close()
		if identifier != tc.name || len(body) == 0 {
			t.Errorf("ReadUp(%d) = %q with %d bytes, want %q", tc.version, identifier, len(body), tc.name)
		}

		down, _, err := src.ReadDown(tc.version)
		if err != nil {
			t.Fatalf("ReadDown(%d) failed: %v", tc.version, err)
		}
		down.Close()
	}
}

func TestSource_IgnoresStrayFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"000010_late.up.sql":    {Data: []byte("SELECT 10")},
		"000002_early.up.sql":   {Data: []byte("SELECT 2")},
		"000002_early.down.sql": {Data: []byte("SELECT -2")},
		"README.md":             {Data: []byte("ignored")},
	}

	src, err := Source(fsys)
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })

	first, _ := src.First()
	next, _ := src.Next(first)
	if first != 2 || next != 10 {
		t.Errorf("versions = %d, %d; want 2, 10", first, next)
	}
	if _, _, err := src.ReadDown(10); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadDown(10) = %v, want fs.ErrNotExist", err)
	}
}

func TestSource_Duplicate(t *testing.T) {
	fsys := fstest.MapFS{
		"1_a.up.sql":      {Data: []byte("SELECT 1")},
		"000001_b.up.sql": {Data: []byte("SELECT 1")},
	}

	if _, err := Source(fsys); err == nil {
		t.Fatal("expected error for duplicate up migration")
	}
}

func TestParseDirection(t *testing.T) {
	testCases := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDirection(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDirection) {
					t.Fatalf("expected ErrInvalidDirection, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseDirection(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestResult_Changed(t *testing.T) {
	if (Result{From: 2, To: 2}).Changed() {
		t.Error("same version should not count as changed")
	}
	if !(Result{From: 0, To: 2}).Changed() {
		t.Error("0 -> 2 should count as changed")
	}
}
