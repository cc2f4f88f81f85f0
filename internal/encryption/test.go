package encryption

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"fondspod/internal/archive"
)

// snapshotMagic marks data written by TestEncryptor.
var snapshotMagic = []byte("FPSNAP\x00\x00")

// TestEncryptor is a keyless Encryptor for tests and throwaway libraries.
// Output is the magic header followed by the input with every byte inverted,
// so an encrypted snapshot never opens as a SQLite database by accident.
//
// Once Setup has run, Unlock only accepts the same passphrase.
type TestEncryptor struct {
	passphrase string
}

var _ archive.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(snapshotMagic); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	return invertCopy(w, r)
}

func (e *TestEncryptor) Unlock(passphrase string) (archive.DecryptionContext, error) {
	if e.passphrase != "" && passphrase != e.passphrase {
		return nil, ErrWrongPassphrase
	}
	return testDecryption{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

type testDecryption struct{}

func (testDecryption) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(snapshotMagic))
	if err != nil || !bytes.Equal(header, snapshotMagic) {
		return fmt.Errorf("not a test-encrypted snapshot")
	}
	if _, err := br.Discard(len(snapshotMagic)); err != nil {
		return err
	}
	return invertCopy(w, br)
}

func invertCopy(w io.Writer, r io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for i := range buf[:n] {
				buf[i] ^= 0xff
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing snapshot: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
	}
}
