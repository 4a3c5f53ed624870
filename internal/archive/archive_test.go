package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"

	"tt-go/internal/archive"
	"tt-go/internal/track"
)

func TestFileSystemArchiver(t *testing.T) {
	newArchiver := func(t *testing.T) track.Archiver {
		t.Helper()
		a, err := archive.NewFileSystemArchiver(filepath.Join(t.TempDir(), "reports"))
		if err != nil {
			t.Fatalf("NewFileSystemArchiver() error = %v", err)
		}
		return a
	}
	runArchiverSuite(t, newArchiver)

	t.Run("rejects names that escape the root", func(t *testing.T) {
		a := newArchiver(t)
		for _, name := range []string{"", "../escape.csv", "sub/dir.csv"} {
			if err := a.Put(name, strings.NewReader("x"), 1); err == nil {
				t.Errorf("Put(%q) error = nil, want invalid name failure", name)
			}
			if err := a.Get(name, &bytes.Buffer{}); err == nil {
				t.Errorf("Get(%q) error = nil, want invalid name failure", name)
			}
		}
	})

	t.Run("size mismatch leaves no file behind", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "reports")
		a, err := archive.NewFileSystemArchiver(root)
		if err != nil {
			t.Fatalf("NewFileSystemArchiver() error = %v", err)
		}

		if err := a.Put("report.csv", strings.NewReader("short"), 999); err == nil {
			t.Fatal("Put() with wrong size succeeded, want error")
		}

		names, err := a.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(names) != 0 {
			t.Errorf("List() = %v, want empty after failed Put", names)
		}
	})
}

func TestMemoryArchiver(t *testing.T) {
	runArchiverSuite(t, func(t *testing.T) track.Archiver {
		t.Helper()
		return archive.NewMemoryArchiver()
	})
}

func runArchiverSuite(t *testing.T, newArchiver func(t *testing.T) track.Archiver) {
	t.Run("round-trips a report", func(t *testing.T) {
		a := newArchiver(t)
		content := "timestamp,employee,task\n2024-01-15 10:30:00,Alice,Deploy\n"

		if err := a.Put("report_20240115_103000.csv", strings.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := a.Get("report_20240115_103000.csv", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != content {
			t.Errorf("Get() = %q, want %q", buf.String(), content)
		}
	})

	t.Run("overwrites an existing report", func(t *testing.T) {
		a := newArchiver(t)

		if err := a.Put("report.csv", strings.NewReader("old"), 3); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := a.Put("report.csv", strings.NewReader("newer"), 5); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := a.Get("report.csv", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "newer" {
			t.Errorf("Get() = %q, want %q", buf.String(), "newer")
		}
	})

	t.Run("Get of a missing report fails", func(t *testing.T) {
		a := newArchiver(t)
		if err := a.Get("missing.csv", &bytes.Buffer{}); err == nil {
			t.Error("Get() error = nil, want not-found failure")
		}
	})

	t.Run("List returns sorted names", func(t *testing.T) {
		a := newArchiver(t)

		for _, name := range []string{"b.csv", "a.csv", "c.txt"} {
			if err := a.Put(name, strings.NewReader("x"), 1); err != nil {
				t.Fatalf("Put(%q) error = %v", name, err)
			}
		}

		names, err := a.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{"a.csv", "b.csv", "c.txt"}
		if len(names) != len(want) {
			t.Fatalf("List() = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
			}
		}
	})
}

func TestEncryptedArchiver(t *testing.T) {
	writeKeyFiles := func(t *testing.T) (recipientPath, identityPath string) {
		t.Helper()
		identity, err := age.GenerateX25519Identity()
		if err != nil {
			t.Fatalf("generating identity: %v", err)
		}

		dir := t.TempDir()
		recipientPath = filepath.Join(dir, "recipients.txt")
		identityPath = filepath.Join(dir, "identity.txt")
		if err := os.WriteFile(recipientPath, []byte(identity.Recipient().String()+"\n"), 0600); err != nil {
			t.Fatalf("writing recipient file: %v", err)
		}
		if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), 0600); err != nil {
			t.Fatalf("writing identity file: %v", err)
		}
		return recipientPath, identityPath
	}

	t.Run("round-trips through encryption", func(t *testing.T) {
		recipientPath, identityPath := writeKeyFiles(t)
		inner := archive.NewMemoryArchiver()
		a := archive.NewEncryptedArchiver(inner, recipientPath, identityPath)

		content := "employee,task\nAlice,Deploy\n"
		if err := a.Put("report.csv", strings.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := a.Get("report.csv", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != content {
			t.Errorf("Get() = %q, want %q", buf.String(), content)
		}
	})

	t.Run("stored bytes are not plaintext", func(t *testing.T) {
		recipientPath, identityPath := writeKeyFiles(t)
		inner := archive.NewMemoryArchiver()
		a := archive.NewEncryptedArchiver(inner, recipientPath, identityPath)

		content := "employee,task\nAlice,Deploy\n"
		if err := a.Put("report.csv", strings.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var raw bytes.Buffer
		if err := inner.Get("report.csv", &raw); err != nil {
			t.Fatalf("inner Get() error = %v", err)
		}
		if strings.Contains(raw.String(), "Alice") {
			t.Error("inner archiver holds plaintext, want ciphertext")
		}
	})

	t.Run("Get without an identity file fails", func(t *testing.T) {
		recipientPath, _ := writeKeyFiles(t)
		inner := archive.NewMemoryArchiver()
		a := archive.NewEncryptedArchiver(inner, recipientPath, "")

		content := "x"
		if err := a.Put("report.csv", strings.NewReader(content), 1); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := a.Get("report.csv", &bytes.Buffer{}); err == nil {
			t.Error("Get() error = nil, want missing identity failure")
		}
	})

	t.Run("Put without a recipient file fails", func(t *testing.T) {
		inner := archive.NewMemoryArchiver()
		a := archive.NewEncryptedArchiver(inner, filepath.Join(t.TempDir(), "absent.txt"), "")

		if err := a.Put("report.csv", strings.NewReader("x"), 1); err == nil {
			t.Error("Put() error = nil, want missing recipient failure")
		}

		names, err := inner.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(names) != 0 {
			t.Errorf("inner archiver = %v, want empty", names)
		}
	})

	t.Run("List passes through", func(t *testing.T) {
		recipientPath, identityPath := writeKeyFiles(t)
		inner := archive.NewMemoryArchiver()
		a := archive.NewEncryptedArchiver(inner, recipientPath, identityPath)

		if err := a.Put("report.csv", strings.NewReader("x"), 1); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		names, err := a.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(names) != 1 || names[0] != "report.csv" {
			t.Errorf("List() = %v, want [report.csv]", names)
		}
	})
}
