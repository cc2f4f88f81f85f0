package archive

import "io"

// Vault stores database snapshots of archive libraries away from the
// library directory. Snapshots are keyed by library id and carry a version
// (the id of the journal operation that produced them).
type Vault interface {
	// PutSnapshot stores the snapshot for libraryID, replacing any earlier one.
	// size is the number of bytes that will be read from r.
	PutSnapshot(libraryID string, r io.Reader, size int64, version int64) error

	// GetSnapshot writes the stored snapshot for libraryID to w.
	GetSnapshot(libraryID string, w io.Writer) error

	// SnapshotVersion returns the version of the stored snapshot, or 0 when
	// none exists.
	SnapshotVersion(libraryID string) (int64, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}

// Encryptor protects snapshots before they leave the machine.
// Encryption uses the public key only; decryption requires a passphrase to
// unlock the private key.
type Encryptor interface {
	// Setup generates a key pair and encrypts the private key with passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key and returns a DecryptionContext.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist at configured paths.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for the duration
// of a restore. The unlocked key is never written to disk.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
