// Package config reads and writes the sunrise user configuration, a JSONC
// file at ~/.sunrise/config.jsonc. Comments and trailing commas are
// accepted on read, and Set/Unset edit the file in place without losing
// the user's comments.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tailscale/hujson"

	"github.com/sunrise-cli/sunrise/internal/core/agent"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

const (
	configDirName  = ".sunrise"
	configFileName = "config.jsonc"

	// HomeEnv overrides the configuration directory.
	HomeEnv = "SUNRISE_HOME"
)

// Config is the user configuration.
type Config struct {
	DefaultAgent      string            `json:"defaultAgent,omitempty"`
	DefaultRef        string            `json:"defaultRef,omitempty"`
	ProtectedPaths    []string          `json:"protectedPaths,omitempty"`
	CloneURLOverrides map[string]string `json:"cloneURLOverrides,omitempty"`
	FetchTimeout      string            `json:"fetchTimeout,omitempty"` // Go duration, e.g. "90s"
	Agents            []agent.Profile   `json:"agents,omitempty"`
}

// Timeout returns the parsed fetch timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

func (c *Config) validate() error {
	if c.FetchTimeout != "" {
		d, err := time.ParseDuration(c.FetchTimeout)
		if err != nil {
			return fmt.Errorf("fetchTimeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("fetchTimeout must be positive, got %s", c.FetchTimeout)
		}
	}
	for _, p := range c.ProtectedPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("protectedPaths: empty entry")
		}
	}
	return nil
}

// settable lists the scalar keys that Set and Unset accept.
var settable = map[string]func(string) error{
	"defaultAgent": func(string) error { return nil },
	"defaultRef":   func(string) error { return nil },
	"fetchTimeout": func(v string) error {
		d, err := time.ParseDuration(v)
		if err == nil && d <= 0 {
			err = fmt.Errorf("must be positive")
		}
		return err
	},
}

// SettableKeys returns the keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Manager handles reading and writing the configuration file.
type Manager struct {
	configDir string
	mu        sync.RWMutex
}

// NewManager creates a Manager for $SUNRISE_HOME, or ~/.sunrise when unset.
func NewManager() (*Manager, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return &Manager{configDir: dir}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &Manager{configDir: filepath.Join(home, configDirName)}, nil
}

// NewManagerWithDir creates a Manager using a custom config directory.
func NewManagerWithDir(dir string) *Manager {
	return &Manager{configDir: dir}
}

// ConfigDir returns the configuration directory path.
func (m *Manager) ConfigDir() string { return m.configDir }

// ConfigPath returns the full path to the config file.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.configDir, configFileName)
}

// Load reads the config. A missing file yields an empty config.
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.ConfigError("reading config", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("parsing %s", m.ConfigPath()), err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("parsing %s", m.ConfigPath()), err)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid %s", m.ConfigPath()), err)
	}
	return &cfg, nil
}

// Save replaces the config file with cfg.
func (m *Manager) Save(cfg *Config) error {
	if err := cfg.validate(); err != nil {
		return errors.ConfigError("invalid config", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(append(data, '\n'))
}

// Set assigns a scalar key, keeping the rest of the file (comments
// included) as it is.
func (m *Manager) Set(key, value string) error {
	check, ok := settable[key]
	if !ok {
		return errors.ConfigError(fmt.Sprintf("unknown config key %q; settable: %s",
			key, strings.Join(SettableKeys(), ", ")), nil)
	}
	if err := check(value); err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid value for %s", key), err)
	}

	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.patch(func(root *hujson.Value) error {
		op := "add"
		if root.Find("/"+key) != nil {
			op = "replace"
		}
		return root.Patch([]byte(fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, "/"+key, valueJSON)))
	})
}

// Unset removes a scalar key. Removing an absent key is not an error.
func (m *Manager) Unset(key string) error {
	if _, ok := settable[key]; !ok {
		return errors.ConfigError(fmt.Sprintf("unknown config key %q; settable: %s",
			key, strings.Join(SettableKeys(), ", ")), nil)
	}
	return m.patch(func(root *hujson.Value) error {
		if root.Find("/"+key) == nil {
			return nil
		}
		return root.Patch([]byte(fmt.Sprintf(`[{"op":"remove","path":%q}]`, "/"+key)))
	})
}

// Protect adds prefixes to protectedPaths, skipping ones already present.
func (m *Manager) Protect(prefixes ...string) error {
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	for _, p := range prefixes {
		if !slices.Contains(cfg.ProtectedPaths, p) {
			cfg.ProtectedPaths = append(cfg.ProtectedPaths, p)
		}
	}
	data, err := json.Marshal(cfg.ProtectedPaths)
	if err != nil {
		return err
	}
	return m.patch(func(root *hujson.Value) error {
		op := "add"
		if root.Find("/protectedPaths") != nil {
			op = "replace"
		}
		return root.Patch([]byte(fmt.Sprintf(`[{"op":%q,"path":"/protectedPaths","value":%s}]`, op, data)))
	})
}

// pointerEscaper escapes a key for use in a JSON pointer.
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// SetCloneURLOverride redirects a reference ("owner/repo" or
// "host/owner/repo") to another clone URL.
func (m *Manager) SetCloneURLOverride(ref, url string) error {
	ref, url = strings.TrimSpace(ref), strings.TrimSpace(url)
	if ref == "" || url == "" {
		return errors.ConfigError("clone URL override needs a reference and a URL", nil)
	}
	valueJSON, err := json.Marshal(url)
	if err != nil {
		return err
	}
	return m.patch(func(root *hujson.Value) error {
		if root.Find("/cloneURLOverrides") == nil {
			if err := root.Patch([]byte(`[{"op":"add","path":"/cloneURLOverrides","value":{}}]`)); err != nil {
				return err
			}
		}
		ptr := "/cloneURLOverrides/" + pointerEscaper.Replace(ref)
		op := "add"
		if root.Find(ptr) != nil {
			op = "replace"
		}
		return root.Patch([]byte(fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, ptr, valueJSON)))
	})
}

// patch parses the current file as a JSONC AST, applies edit and writes the
// formatted result back.
func (m *Manager) patch(edit func(root *hujson.Value) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := os.ReadFile(m.ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return errors.ConfigError("reading config", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		content = []byte("{}")
	}

	root, err := hujson.Parse(content)
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("parsing %s", m.ConfigPath()), err)
	}
	if err := edit(&root); err != nil {
		return errors.ConfigError("updating config", err)
	}
	root.Format()
	return m.write(root.Pack())
}

// write replaces the config file atomically: temp file, then rename.
func (m *Manager) write(data []byte) error {
	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp, err := os.CreateTemp(m.configDir, configFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, m.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
