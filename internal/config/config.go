package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for fondspod.
type Config struct {
	Language          string           `toml:"language"`
	BaseDir           string           `toml:"base_dir"`
	LogDir            string           `toml:"log_dir"`
	LastOpenedLibrary string           `toml:"last_opened_library"`
	Libraries         []LibraryConfig  `toml:"libraries"`
	Vaults            []VaultConfig    `toml:"vaults"`
	Encryption        EncryptionConfig `toml:"encryption"`
	Database          DatabaseConfig   `toml:"database"`
	Filesystem        FilesystemConfig `toml:"filesystem"`
}

// LibraryConfig registers an archive library: a directory holding the
// library database and the fonds directories.
type LibraryConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// EncryptionConfig holds paths to the age key pair used for encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "test" or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// VaultConfig represents configuration for a vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the library database.
type DatabaseConfig struct {
	Type string `toml:"type"` // "sqlite" or "memory"
}

// NewConfig creates a new Config with the provided base directory and default key paths.
func NewConfig(baseDir string) *Config {
	return &Config{
		Language: "en",
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "fondspod.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "fondspod.key"),
		},
		Database: DatabaseConfig{Type: "sqlite"},
	}
}

// FindLibrary returns the library registered under name, or nil.
func (c *Config) FindLibrary(name string) *LibraryConfig {
	for i := range c.Libraries {
		if c.Libraries[i].Name == name {
			return &c.Libraries[i]
		}
	}
	return nil
}

// AddLibrary registers a library. Names and paths must be unique.
func (c *Config) AddLibrary(lib LibraryConfig) error {
	if lib.Name == "" {
		return fmt.Errorf("library name must not be empty")
	}
	for _, l := range c.Libraries {
		if l.Name == lib.Name {
			return fmt.Errorf("library %q already exists", lib.Name)
		}
		if l.Path == lib.Path {
			return fmt.Errorf("path %s is already registered as library %q", lib.Path, l.Name)
		}
	}
	c.Libraries = append(c.Libraries, lib)
	return nil
}

// RemoveLibrary unregisters a library. The library directory is left alone.
func (c *Config) RemoveLibrary(name string) error {
	for i, l := range c.Libraries {
		if l.Name == name {
			c.Libraries = append(c.Libraries[:i], c.Libraries[i+1:]...)
			if c.LastOpenedLibrary == name {
				c.LastOpenedLibrary = ""
			}
			return nil
		}
	}
	return fmt.Errorf("library %q not found", name)
}

func (c *Config) RenameLibrary(oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("library name must not be empty")
	}
	if c.FindLibrary(newName) != nil {
		return fmt.Errorf("library %q already exists", newName)
	}
	lib := c.FindLibrary(oldName)
	if lib == nil {
		return fmt.Errorf("library %q not found", oldName)
	}
	lib.Name = newName
	if c.LastOpenedLibrary == oldName {
		c.LastOpenedLibrary = newName
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, replacing the existing file.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to a sibling file first so a failed encode leaves the old config intact.
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	m := &Manager{}
	if err := m.Write(tmp, cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing config %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := Save(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
