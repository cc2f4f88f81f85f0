package encryption

import (
	"fmt"

	"fondspod/internal/archive"
	"fondspod/internal/config"
)

// Encryption types accepted in the [encryption] section of the config.
const (
	TypeAge  = "age"
	TypeTest = "test"
	TypeNone = "none"
)

// Kind returns the effective encryption type of cfg. An empty type means age.
func Kind(cfg config.EncryptionConfig) string {
	if cfg.Type == "" {
		return TypeAge
	}
	return cfg.Type
}

// NeedsPassphrase reports whether restoring snapshots written under cfg
// requires the user's passphrase.
func NeedsPassphrase(cfg config.EncryptionConfig) bool {
	return Kind(cfg) == TypeAge
}

// NewEncryptorFromConfig returns the snapshot Encryptor selected by cfg.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (archive.Encryptor, error) {
	kind := Kind(cfg)
	switch kind {
	case TypeAge:
		return NewAgeEncryptor(cfg), nil
	case TypeTest:
		return NewTestEncryptor(), nil
	case TypeNone:
		return NewPlainEncryptor(), nil
	}
	return nil, fmt.Errorf("unknown encryption type %q (want %s, %s or %s)", kind, TypeAge, TypeNone, TypeTest)
}
