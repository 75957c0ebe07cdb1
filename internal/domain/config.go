package domain

import (
	_ "embed"
	"path/filepath"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// ConfigFileName is the name of the global configuration file.
const ConfigFileName = "config.toml"

// RepoConfigFileName is the name of the repository-level configuration file.
const RepoConfigFileName = ".treeboard.toml"

// Backend names accepted in [remote] backend.
const (
	BackendHTTP = "http"
	BackendFile = "file"
	BackendGit  = "git"
	BackendNone = "none"
)

// ID generator names accepted in [ids] generator.
const (
	GeneratorAuto    = "auto"
	GeneratorCounter = "counter"
	GeneratorUUID    = "uuid"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Remote   RemoteConfig `toml:"remote"`
	Store    StoreConfig  `toml:"store"`
	IDs      IDsConfig    `toml:"ids"`
	Log      LogConfig    `toml:"log"`
	Sync     SyncConfig   `toml:"sync"`
}

// RemoteConfig holds settings from the [remote] section.
type RemoteConfig struct {
	Backend string   `toml:"backend,omitempty"` // http, file, git or none
	URL     string   `toml:"url,omitempty"`     // Base URL of the persistence API
	Token   string   `toml:"token,omitempty"`   // Bearer token (TREEBOARD_TOKEN overrides)
	Timeout Duration `toml:"timeout,omitempty"` // Per-request timeout
}

// SyncConfig holds settings from the [sync] section.
type SyncConfig struct {
	PollInterval  Duration `toml:"poll_interval,omitempty"`  // Reconciliation pull interval
	VerifyReorder bool     `toml:"verify_reorder,omitempty"` // Re-fetch after reorders to detect lost writes
}

// StoreConfig holds settings for the offline backends from the [store] section.
type StoreConfig struct {
	Path          string `toml:"path,omitempty"`           // JSON file for the file backend
	Namespace     string `toml:"namespace,omitempty"`      // Ref namespace for the git backend
	EncryptionKey string `toml:"encryption_key,omitempty"` // 64 hex characters; seals the git backend blob
}

// IDsConfig holds settings from the [ids] section.
type IDsConfig struct {
	Generator string `toml:"generator,omitempty"` // auto, counter or uuid
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
	File  string `toml:"file,omitempty"`  // Log file path; "-" logs to stderr
}

// Duration is a time.Duration that reads and writes TOML strings such as "5s".
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// NewDefaultConfig returns the configuration used when no file sets a value.
func NewDefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Backend: BackendFile,
			URL:     "http://localhost:8787/api",
			Timeout: Duration(10 * time.Second),
		},
		Sync: SyncConfig{
			PollInterval:  Duration(5 * time.Second),
			VerifyReorder: true,
		},
		Store: StoreConfig{
			Namespace: "treeboard",
		},
		IDs: IDsConfig{
			Generator: GeneratorAuto,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ResolveGenerator returns the effective id generator name for the configured backend.
// Shared backends get globally unique ids so that two clients never collide.
func (c *Config) ResolveGenerator() string {
	switch c.IDs.Generator {
	case GeneratorCounter, GeneratorUUID:
		return c.IDs.Generator
	}
	switch c.Remote.Backend {
	case BackendHTTP, BackendGit:
		return GeneratorUUID
	default:
		return GeneratorCounter
	}
}

// RenderConfigTemplate returns the commented configuration written by `config init`.
func RenderConfigTemplate() string {
	return configTemplateContent
}

// GlobalDataDir returns the treeboard directory under the given config home.
func GlobalDataDir(configHome string) string {
	return filepath.Join(configHome, "treeboard")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalDataDir(configHome), ConfigFileName)
}

// RepoConfigPath returns the path to the repository config file.
func RepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, RepoConfigFileName)
}

// DefaultStorePath returns the board file used by the file backend.
func DefaultStorePath(dataDir string) string {
	return filepath.Join(dataDir, "board.json")
}

// DefaultLogPath returns the log file path under the data directory.
func DefaultLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "treeboard.log")
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// LoadConfigOptions controls which configuration sources are merged.
type LoadConfigOptions struct {
	IgnoreGlobal bool
	IgnoreRepo   bool
}
