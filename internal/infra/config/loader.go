// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/treeboard/internal/domain"
)

// TokenEnv overrides [remote] token when set.
const TokenEnv = "TREEBOARD_TOKEN"

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	getenv        func(string) string
	repoRoot      string // Repository root (or working directory) holding .treeboard.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/treeboard)
}

// NewLoader creates a new Loader.
func NewLoader(repoRoot string) *Loader {
	return &Loader{
		getenv:        os.Getenv,
		repoRoot:      repoRoot,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(repoRoot, globalConfDir string) *Loader {
	return &Loader{
		getenv:        func(string) string { return "" },
		repoRoot:      repoRoot,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalDataDir(configHome)
}

// DataDir returns the directory holding the global config, board file and logs.
func (l *Loader) DataDir() string {
	return l.globalConfDir
}

// Load returns the merged configuration (default <- global <- repo).
// Repository config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{})
}

// LoadGlobal returns only the global configuration applied over the defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	return l.LoadWithOptions(domain.LoadConfigOptions{IgnoreRepo: true})
}

// LoadWithOptions returns the merged configuration with options to ignore sources.
func (l *Loader) LoadWithOptions(opts domain.LoadConfigOptions) (*domain.Config, error) {
	// Start with default config
	cfg := domain.NewDefaultConfig()

	// Merge: default <- global <- repo (later takes precedence)
	if !opts.IgnoreGlobal && l.globalConfDir != "" {
		if err := l.applyFile(cfg, filepath.Join(l.globalConfDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if !opts.IgnoreRepo && l.repoRoot != "" {
		if err := l.applyFile(cfg, domain.RepoConfigPath(l.repoRoot)); err != nil {
			return nil, err
		}
	}

	if token := l.getenv(TokenEnv); token != "" {
		cfg.Remote.Token = token
	}
	l.resolvePaths(cfg)
	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// resolvePaths fills default file locations and anchors relative paths at the repo root.
func (l *Loader) resolvePaths(cfg *domain.Config) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = domain.DefaultStorePath(l.globalConfDir)
	} else if !filepath.IsAbs(cfg.Store.Path) && l.repoRoot != "" {
		cfg.Store.Path = filepath.Join(l.repoRoot, cfg.Store.Path)
	}
	if cfg.Log.File == "" && l.globalConfDir != "" {
		cfg.Log.File = domain.DefaultLogPath(l.globalConfDir)
	}
}

// applyFile reads a configuration file and applies it over cfg.
// A missing file is not an error.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	applyRaw(cfg, raw)
	return nil
}

// applyRaw applies the raw map onto cfg and collects warnings for unknown or
// malformed entries.
func applyRaw(cfg *domain.Config, raw map[string]any) {
	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "remote":
			for k, v := range m {
				switch k {
				case "backend":
					setString(cfg, section, k, v, &cfg.Remote.Backend)
				case "url":
					setString(cfg, section, k, v, &cfg.Remote.URL)
				case "token":
					setString(cfg, section, k, v, &cfg.Remote.Token)
				case "timeout":
					setDuration(cfg, section, k, v, &cfg.Remote.Timeout)
				default:
					cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key in [remote]: %s", k))
				}
			}
		case "sync":
			for k, v := range m {
				switch k {
				case "poll_interval":
					setDuration(cfg, section, k, v, &cfg.Sync.PollInterval)
				case "verify_reorder":
					if b, ok := v.(bool); ok {
						cfg.Sync.VerifyReorder = b
					} else {
						cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid value for [sync] verify_reorder: %v", v))
					}
				default:
					cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key in [sync]: %s", k))
				}
			}
		case "store":
			for k, v := range m {
				switch k {
				case "path":
					setString(cfg, section, k, v, &cfg.Store.Path)
				case "namespace":
					setString(cfg, section, k, v, &cfg.Store.Namespace)
				case "encryption_key":
					setString(cfg, section, k, v, &cfg.Store.EncryptionKey)
				default:
					cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "ids":
			for k, v := range m {
				switch k {
				case "generator":
					setString(cfg, section, k, v, &cfg.IDs.Generator)
				default:
					cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key in [ids]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					setString(cfg, section, k, v, &cfg.Log.Level)
				case "file":
					setString(cfg, section, k, v, &cfg.Log.File)
				default:
					cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}
}

func setString(cfg *domain.Config, section, key string, v any, dst *string) {
	s, ok := v.(string)
	if !ok {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid value for [%s] %s: %v", section, key, v))
		return
	}
	*dst = s
}

func setDuration(cfg *domain.Config, section, key string, v any, dst *domain.Duration) {
	s, ok := v.(string)
	if ok {
		if d, err := time.ParseDuration(s); err == nil {
			*dst = domain.Duration(d)
			return
		}
	}
	cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid value for [%s] %s: %v", section, key, v))
}
