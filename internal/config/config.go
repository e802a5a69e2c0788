package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/samzong/fmtgate/internal/gitutil"
)

// Config is the effective fmtgate configuration.
type Config struct {
	BaseRef       string   `mapstructure:"base_ref" yaml:"base_ref"`
	Extensions    []string `mapstructure:"extensions" yaml:"extensions"`
	Formatter     string   `mapstructure:"formatter" yaml:"formatter"`
	Ignore        []string `mapstructure:"ignore" yaml:"ignore"`
	FormatterArgs []string `mapstructure:"formatter_args" yaml:"formatter_args"`
	Strict        bool     `mapstructure:"strict" yaml:"strict"`
	Spinner       bool     `mapstructure:"spinner" yaml:"spinner"`
}

const (
	DefaultBaseRef     = "origin/master"
	DefaultExtension   = ".py"
	DefaultFormatter   = "autopep8"
	DefaultIgnoredRule = "E501"
	DefaultConfigName  = "config"
	DefaultConfigDir   = "fmtgate"
	ProjectConfigName  = ".fmtgate"
	EnvPrefix          = "FMTGATE"
)

const (
	KeyBaseRef       = "base_ref"
	KeyExtensions    = "extensions"
	KeyFormatter     = "formatter"
	KeyIgnore        = "ignore"
	KeyFormatterArgs = "formatter_args"
	KeyStrict        = "strict"
	KeySpinner       = "spinner"
)

var listKeys = []string{KeyExtensions, KeyIgnore, KeyFormatterArgs}

var boolKeys = []string{KeyStrict, KeySpinner}

// Keys returns every configuration key fmtgate understands.
func Keys() []string {
	return []string{KeyBaseRef, KeyExtensions, KeyFormatter, KeyIgnore, KeyFormatterArgs, KeyStrict, KeySpinner}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseRef:       DefaultBaseRef,
		Extensions:    []string{DefaultExtension},
		Formatter:     DefaultFormatter,
		Ignore:        []string{DefaultIgnoredRule},
		FormatterArgs: []string{},
		Strict:        false,
		Spinner:       true,
	}
}

func setDefaults() {
	d := Default()
	viper.SetDefault(KeyBaseRef, d.BaseRef)
	viper.SetDefault(KeyExtensions, d.Extensions)
	viper.SetDefault(KeyFormatter, d.Formatter)
	viper.SetDefault(KeyIgnore, d.Ignore)
	viper.SetDefault(KeyFormatterArgs, d.FormatterArgs)
	viper.SetDefault(KeyStrict, d.Strict)
	viper.SetDefault(KeySpinner, d.Spinner)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/fmtgate/config.yaml, falling
// back to ~/.config/fmtgate/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, DefaultConfigDir, DefaultConfigName+".yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", DefaultConfigDir, DefaultConfigName+".yaml"), nil
}

// InitConfig loads the user configuration. A missing file is not an error and
// is not created; hooks must not write outside the repository.
func InitConfig(cfgFile string) error {
	viper.SetConfigType("yaml")
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			// No home directory (minimal CI images): defaults and env only.
			return nil
		}
		cfgFile = path
	}
	viper.SetConfigFile(cfgFile)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	return nil
}

// MergeProjectConfig overlays .fmtgate.yaml from dir when it exists.
// Environment variables still take precedence.
func MergeProjectConfig(dir string) (string, error) {
	viper.SetConfigType("yaml")
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, ProjectConfigName+ext)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to open project configuration: %w", err)
		}

		err = viper.MergeConfig(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read project configuration %s: %w", path, err)
		}
		return path, nil
	}
	return "", nil
}

// GetConfig decodes and validates the effective configuration.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	if err := gitutil.ValidateRef(c.BaseRef); err != nil {
		return &InvalidValueError{Key: KeyBaseRef, Value: c.BaseRef, Reason: err.Error()}
	}
	if len(c.Extensions) == 0 {
		return &InvalidValueError{Key: KeyExtensions, Reason: "at least one extension is required"}
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return &InvalidValueError{Key: KeyExtensions, Value: ext, Reason: "extensions must start with '.'"}
		}
	}
	if strings.TrimSpace(c.Formatter) == "" {
		return &InvalidValueError{Key: KeyFormatter, Reason: "formatter cannot be empty"}
	}
	return nil
}

// SetConfigValue parses value for key and stores it in the active configuration.
func SetConfigValue(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return &UnknownKeyError{Key: key}
	}

	switch {
	case slices.Contains(listKeys, key):
		viper.Set(key, splitList(value))
	case slices.Contains(boolKeys, key):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &InvalidValueError{Key: key, Value: value, Reason: "expected true or false"}
		}
		viper.Set(key, b)
	default:
		viper.Set(key, value)
	}
	return nil
}

// SaveConfig stores the current value of key in the user configuration file,
// creating the file with mode 0600 when needed. Only the file's own settings
// and key are written; defaults, project and FMTGATE_* overrides stay out.
func SaveConfig(key string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}

	file := viper.New()
	file.SetConfigType("yaml")
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	}
	file.Set(key, viper.Get(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set configuration file permissions: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if fields == nil {
		return []string{}
	}
	return fields
}
