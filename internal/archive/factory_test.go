package archive

import (
	"testing"

	"tt-go/internal/config"
)

func TestNewArchiverFromConfig(t *testing.T) {
	t.Run("memory archiver", func(t *testing.T) {
		got, err := NewArchiverFromConfig(config.ArchiveConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewArchiverFromConfig() unexpected error: %v", err)
		}
		if _, ok := got.(*MemoryArchiver); !ok {
			t.Errorf("NewArchiverFromConfig() = %T, want *MemoryArchiver", got)
		}
	})

	t.Run("filesystem archiver", func(t *testing.T) {
		got, err := NewArchiverFromConfig(config.ArchiveConfig{
			Type: "filesystem",
			Root: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("NewArchiverFromConfig() unexpected error: %v", err)
		}
		if _, ok := got.(*FileSystemArchiver); !ok {
			t.Errorf("NewArchiverFromConfig() = %T, want *FileSystemArchiver", got)
		}
	})

	t.Run("filesystem archiver without root", func(t *testing.T) {
		if _, err := NewArchiverFromConfig(config.ArchiveConfig{Type: "filesystem"}); err == nil {
			t.Error("NewArchiverFromConfig() expected error for missing root, got nil")
		}
	})

	t.Run("recipient path wraps with encryption", func(t *testing.T) {
		got, err := NewArchiverFromConfig(config.ArchiveConfig{
			Type:          "memory",
			RecipientPath: "/etc/tt/recipients.txt",
		})
		if err != nil {
			t.Fatalf("NewArchiverFromConfig() unexpected error: %v", err)
		}
		if _, ok := got.(*EncryptedArchiver); !ok {
			t.Errorf("NewArchiverFromConfig() = %T, want *EncryptedArchiver", got)
		}
	})

	t.Run("unknown archive type", func(t *testing.T) {
		if _, err := NewArchiverFromConfig(config.ArchiveConfig{Type: "tape"}); err == nil {
			t.Error("NewArchiverFromConfig() expected error for unknown type, got nil")
		}
	})
}
