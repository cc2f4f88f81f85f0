package encryption

import (
	"fmt"
	"io"

	"fondspod/internal/archive"
)

// PlainEncryptor stores snapshots unencrypted. It is selected with
// encryption type "none" for vaults the user already trusts.
type PlainEncryptor struct{}

var _ archive.Encryptor = PlainEncryptor{}

func NewPlainEncryptor() PlainEncryptor { return PlainEncryptor{} }

func (PlainEncryptor) Setup(string) error { return nil }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (p PlainEncryptor) Unlock(string) (archive.DecryptionContext, error) {
	return plainDecryption{}, nil
}

func (PlainEncryptor) IsConfigured() bool { return true }

type plainDecryption struct{}

func (plainDecryption) Decrypt(r io.Reader, w io.Writer) error {
	return PlainEncryptor{}.Encrypt(r, w)
}
