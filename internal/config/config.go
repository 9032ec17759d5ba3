package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/practicum/internal/export"
)

// Config holds application configuration.
type Config struct {
	Selection SelectionConfig `mapstructure:"selection"`
	Export    ExportConfig    `mapstructure:"export"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Delivery  DeliveryConfig  `mapstructure:"delivery"`
	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
}

type SelectionConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

type ExportConfig struct {
	Schema    string `mapstructure:"schema"`
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
}

// DatasetConfig picks where the center directory comes from.
type DatasetConfig struct {
	Source      string `mapstructure:"source"` // builtin | file | catalog
	Path        string `mapstructure:"path"`
	CatalogPath string `mapstructure:"catalog_path"`
}

// DeliveryConfig holds remote sink settings. Tokens never live here; TokenEnv
// names the variable to read, with the secrets store as fallback.
type DeliveryConfig struct {
	Remote    string        `mapstructure:"remote"` // none | script | s3
	ScriptURL string        `mapstructure:"script_url"`
	TokenEnv  string        `mapstructure:"token_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
	S3        S3Config      `mapstructure:"s3"`
}

// S3Config mirrors DeliveryConfig for keys: the env vars are named here and
// the secrets store is the fallback. Both empty means the default AWS chain.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`
	Prefix       string `mapstructure:"prefix"`
	PathStyle    bool   `mapstructure:"path_style"`
	AccessKeyEnv string `mapstructure:"access_key_env"`
	SecretKeyEnv string `mapstructure:"secret_key_env"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type UIConfig struct {
	LockWhileUploading bool `mapstructure:"lock_while_uploading"`
}

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceCatalog = "catalog"

	RemoteNone   = "none"
	RemoteScript = "script"
	RemoteS3     = "s3"
)

func home() string {
	return os.Getenv("HOME")
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "practicum")
	}
	return filepath.Join(append(append([]string{home()}, fallback...), "practicum")...)
}

// Path is the config file location: PRACTICUM_CONFIG or the XDG config dir.
func Path() string {
	if p := os.Getenv("PRACTICUM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("selection.max_size", 15)
	v.SetDefault("export.schema", export.DefaultSchema)
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("export.title", export.DefaultTitle)
	v.SetDefault("dataset.source", SourceBuiltin)
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.catalog_path", filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "catalog.db"))
	v.SetDefault("delivery.remote", RemoteNone)
	v.SetDefault("delivery.script_url", "")
	v.SetDefault("delivery.token_env", "PRACTICUM_TOKEN")
	v.SetDefault("delivery.timeout", "0s")
	v.SetDefault("delivery.s3.bucket", "")
	v.SetDefault("delivery.s3.region", "us-east-1")
	v.SetDefault("delivery.s3.endpoint", "")
	v.SetDefault("delivery.s3.prefix", "")
	v.SetDefault("delivery.s3.path_style", false)
	v.SetDefault("delivery.s3.access_key_env", "PRACTICUM_S3_ACCESS_KEY_ID")
	v.SetDefault("delivery.s3.secret_key_env", "PRACTICUM_S3_SECRET_ACCESS_KEY")
	v.SetDefault("log.path", filepath.Join(xdgDir("XDG_STATE_HOME", ".local", "state"), "practicum.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.lock_while_uploading", true)

	v.SetConfigType("toml")
	return v
}

// Load reads configuration from file and env. Env var overrides use prefix PRACTICUM_.
func Load() (Config, error) {
	v := newViper()

	if p := os.Getenv("PRACTICUM_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(xdgDir("XDG_CONFIG_HOME", ".config"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PRACTICUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the configuration with no file and no env overrides.
func Default() Config {
	var c Config
	_ = newViper().Unmarshal(&c)
	return c
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	if c.Selection.MaxSize < 1 {
		return fmt.Errorf("config: selection.max_size must be at least 1, got %d", c.Selection.MaxSize)
	}
	if _, err := export.Lookup(c.Export.Schema); err != nil {
		return fmt.Errorf("config: export.schema: %w (one of %s)", err, strings.Join(export.SchemaNames(), ", "))
	}
	switch c.Dataset.Source {
	case SourceBuiltin, SourceCatalog:
	case SourceFile:
		if c.Dataset.Path == "" {
			return fmt.Errorf("config: dataset.path required for source %q", SourceFile)
		}
	default:
		return fmt.Errorf("config: unknown dataset.source %q", c.Dataset.Source)
	}
	switch c.Delivery.Remote {
	case RemoteNone, "":
	case RemoteScript:
		if c.Delivery.ScriptURL == "" {
			return fmt.Errorf("config: delivery.script_url required for remote %q", RemoteScript)
		}
	case RemoteS3:
		if c.Delivery.S3.Bucket == "" {
			return fmt.Errorf("config: delivery.s3.bucket required for remote %q", RemoteS3)
		}
	default:
		return fmt.Errorf("config: unknown delivery.remote %q", c.Delivery.Remote)
	}
	return nil
}

// Save writes cfg to Path(), creating the config directory if needed.
// Used by -write-config to produce a starter file.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("selection.max_size", cfg.Selection.MaxSize)
	v.Set("export.schema", cfg.Export.Schema)
	v.Set("export.output_dir", cfg.Export.OutputDir)
	v.Set("export.title", cfg.Export.Title)
	v.Set("dataset.source", cfg.Dataset.Source)
	v.Set("dataset.path", cfg.Dataset.Path)
	v.Set("dataset.catalog_path", cfg.Dataset.CatalogPath)
	v.Set("delivery.remote", cfg.Delivery.Remote)
	v.Set("delivery.script_url", cfg.Delivery.ScriptURL)
	v.Set("delivery.token_env", cfg.Delivery.TokenEnv)
	v.Set("delivery.timeout", cfg.Delivery.Timeout.String())
	v.Set("delivery.s3.bucket", cfg.Delivery.S3.Bucket)
	v.Set("delivery.s3.region", cfg.Delivery.S3.Region)
	v.Set("delivery.s3.endpoint", cfg.Delivery.S3.Endpoint)
	v.Set("delivery.s3.prefix", cfg.Delivery.S3.Prefix)
	v.Set("delivery.s3.path_style", cfg.Delivery.S3.PathStyle)
	v.Set("delivery.s3.access_key_env", cfg.Delivery.S3.AccessKeyEnv)
	v.Set("delivery.s3.secret_key_env", cfg.Delivery.S3.SecretKeyEnv)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.lock_while_uploading", cfg.UI.LockWhileUploading)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
