package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "scriptbar"
	configFileName = "config.yaml"
)

// Duration is a time.Duration written as "30s" in YAML.
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil || strings.TrimSpace(value.Value) == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	if parsed < 0 {
		return fmt.Errorf("line %d: negative duration %s", value.Line, value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// TitleConfig controls the status bar title.
type TitleConfig struct {
	CycleInterval Duration `yaml:"cycleInterval"`
	Placeholder   string   `yaml:"placeholder"`
	OpenColor     string   `yaml:"openColor"`
}

// SourceConfig says where plugin output comes from. URL wins over Path.
type SourceConfig struct {
	Path   string `yaml:"path,omitempty"`
	URL    string `yaml:"url,omitempty"`
	APIKey string `yaml:"apiKey,omitempty"`
}

// TerminalConfig is the argv template for interactive commands; "{cmd}" is
// replaced by the command line.
type TerminalConfig struct {
	Command []string `yaml:"command,omitempty"`
}

// ServiceConfig configures the local control endpoint.
type ServiceConfig struct {
	Address string `yaml:"address,omitempty"`
	Token   string `yaml:"token,omitempty"`
}

// Config represents the persisted configuration file.
type Config struct {
	RefreshInterval Duration       `yaml:"refreshInterval"`
	Title           TitleConfig    `yaml:"title"`
	Source          SourceConfig   `yaml:"source"`
	Terminal        TerminalConfig `yaml:"terminal"`
	Service         ServiceConfig  `yaml:"service"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		RefreshInterval: Duration(30 * time.Second),
		Title: TitleConfig{
			CycleInterval: Duration(5 * time.Second),
			Placeholder:   "⚠️",
			OpenColor:     "white",
		},
	}
}

// Path returns the resolved configuration file path.
func Path() (string, error) {
	if custom := os.Getenv("SCRIPTBAR_CONFIG_PATH"); custom != "" {
		if err := os.MkdirAll(filepath.Dir(custom), 0o700); err != nil {
			return "", fmt.Errorf("ensure custom config directory: %w", err)
		}
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}

	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}

	return filepath.Join(dir, configFileName), nil
}

// Load reads the configuration at path, or at Path() when path is empty. A
// missing file yields the defaults. Unset values fall back to defaults and
// environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	cfg.fillDefaults()
	if err := cfg.openSecrets(Passphrase()); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Save writes cfg to path, or to Path() when path is empty. Secrets are
// sealed when a passphrase is available.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("nil configuration")
	}
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	out := *cfg
	if err := out.sealSecrets(Passphrase()); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tempFile, path)
}

// Marshal renders cfg as YAML without sealing secrets.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = def.RefreshInterval
	}
	if c.Title.CycleInterval <= 0 {
		c.Title.CycleInterval = def.Title.CycleInterval
	}
	if strings.TrimSpace(c.Title.Placeholder) == "" {
		c.Title.Placeholder = def.Title.Placeholder
	}
	if strings.TrimSpace(c.Title.OpenColor) == "" {
		c.Title.OpenColor = def.Title.OpenColor
	}
}

func (c *Config) applyEnv() {
	if addr := strings.TrimSpace(os.Getenv("SCRIPTBAR_SERVICE_ADDR")); addr != "" {
		c.Service.Address = addr
	}
	if token := strings.TrimSpace(os.Getenv("SCRIPTBAR_SERVICE_TOKEN")); token != "" {
		c.Service.Token = token
	}
}
