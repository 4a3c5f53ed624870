package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"tt-go/internal/track"
)

// EncryptedArchiver wraps another Archiver and encrypts every report with an
// age recipient key before storage. Reports contain per-employee performance
// data; encrypting the archived copies keeps a shared backend from exposing
// them. Decryption on Get requires the identity file; without it, Get
// returns the ciphertext error from age, never plaintext.
type EncryptedArchiver struct {
	inner         track.Archiver
	recipientPath string
	identityPath  string
}

var _ track.Archiver = (*EncryptedArchiver)(nil)

// NewEncryptedArchiver wraps inner with age encryption. recipientPath must
// point to an age recipients file; identityPath may be empty, in which case
// Get fails until one is configured.
func NewEncryptedArchiver(inner track.Archiver, recipientPath, identityPath string) *EncryptedArchiver {
	return &EncryptedArchiver{
		inner:         inner,
		recipientPath: recipientPath,
		identityPath:  identityPath,
	}
}

// Put encrypts the report and stores the ciphertext under name.
func (a *EncryptedArchiver) Put(name string, r io.Reader, size int64) error {
	recipients, err := a.loadRecipients()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	written, err := io.Copy(w, r)
	if err != nil {
		return fmt.Errorf("encrypting report: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	return a.inner.Put(name, &buf, int64(buf.Len()))
}

// Get retrieves the ciphertext from the inner archiver and decrypts it.
func (a *EncryptedArchiver) Get(name string, w io.Writer) error {
	identities, err := a.loadIdentities()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := a.inner.Get(name, &buf); err != nil {
		return err
	}

	r, err := age.Decrypt(&buf, identities...)
	if err != nil {
		return fmt.Errorf("decrypting report: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("reading decrypted report: %w", err)
	}
	return nil
}

// List passes through to the inner archiver; names are not encrypted.
func (a *EncryptedArchiver) List() ([]string, error) {
	return a.inner.List()
}

func (a *EncryptedArchiver) loadRecipients() ([]age.Recipient, error) {
	f, err := os.Open(a.recipientPath)
	if err != nil {
		return nil, fmt.Errorf("opening recipient file: %w", err)
	}
	defer f.Close()

	recipients, err := age.ParseRecipients(f)
	if err != nil {
		return nil, fmt.Errorf("parsing recipient file: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in %s", a.recipientPath)
	}
	return recipients, nil
}

func (a *EncryptedArchiver) loadIdentities() ([]age.Identity, error) {
	if a.identityPath == "" {
		return nil, fmt.Errorf("no identity file configured, cannot decrypt archived reports")
	}
	f, err := os.Open(a.identityPath)
	if err != nil {
		return nil, fmt.Errorf("opening identity file: %w", err)
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in %s", a.identityPath)
	}
	return identities, nil
}
