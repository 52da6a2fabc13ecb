package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrLoadConfig indicates a failure to read or parse the YAML configuration.
var ErrLoadConfig = errors.New("config load failed")

// ErrValidateConfig indicates that the loaded configuration is invalid.
var ErrValidateConfig = errors.New("configuration validation failed")

// EnvPrefix is prepended to every environment override, e.g. CATBACKUP_STORAGE_FOLDER.
const EnvPrefix = "CATBACKUP"

// LegacyTokenEnv is the variable the storage token has always been read from.
const LegacyTokenEnv = "YANDEX_TOKEN"

// Config represents the top-level YAML configuration file.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Images  ImagesConfig  `mapstructure:"images"  yaml:"images"`
	Backup  BackupConfig  `mapstructure:"backup"  yaml:"backup"`
	Vault   VaultConfig   `mapstructure:"vault"   yaml:"vault"`
	Log     LogConfig     `mapstructure:"log"     yaml:"log"`
}

// StorageConfig holds the cloud disk REST API settings.
type StorageConfig struct {
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	Token          string        `mapstructure:"token"           yaml:"token,omitempty"`
	AuthScheme     string        `mapstructure:"auth_scheme"     yaml:"auth_scheme"`
	Folder         string        `mapstructure:"folder"          yaml:"folder"`
	AccountTimeout time.Duration `mapstructure:"account_timeout" yaml:"account_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// ImagesConfig describes how captioned images are requested.
type ImagesConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Width   int           `mapstructure:"width"    yaml:"width"`
	Height  int           `mapstructure:"height"   yaml:"height"`
	Color   string        `mapstructure:"color"    yaml:"color"`
	Type    string        `mapstructure:"type"     yaml:"type"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// BackupConfig contains global backup options.
type BackupConfig struct {
	OutputDirectory string        `mapstructure:"output_directory" yaml:"output_directory"`
	Compress        bool          `mapstructure:"compress"         yaml:"compress"`
	Delay           time.Duration `mapstructure:"delay"            yaml:"delay"`
	RateLimit       float64       `mapstructure:"rate_limit"       yaml:"rate_limit"`
}

// VaultConfig holds connection settings for HashiCorp Vault.
type VaultConfig struct {
	Address     string `mapstructure:"address"      yaml:"address"`
	TokenPath   string `mapstructure:"token_path"   yaml:"token_path"`
	TokenKey    string `mapstructure:"token_key"    yaml:"token_key"`
	RoleID      string `mapstructure:"role_id"      yaml:"role_id,omitempty"`
	ApproleName string `mapstructure:"approle_name" yaml:"approle_name,omitempty"`
}

// LogConfig controls the log file and verbosity.
type LogConfig struct {
	File  string `mapstructure:"file"  yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Enabled reports whether Vault should be consulted for the storage token.
func (v VaultConfig) Enabled() bool {
	return v.Address != "" && v.TokenPath != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.base_url", "https://cloud-api.yandex.net/v1/disk")
	v.SetDefault("storage.token", "")
	v.SetDefault("storage.auth_scheme", "OAuth")
	v.SetDefault("storage.folder", "Netology-Group-140")
	v.SetDefault("storage.account_timeout", 10*time.Second)
	v.SetDefault("storage.request_timeout", 30*time.Second)

	v.SetDefault("images.base_url", "https://cataas.com/cat/says")
	v.SetDefault("images.width", 500)
	v.SetDefault("images.height", 500)
	v.SetDefault("images.color", "orange")
	v.SetDefault("images.type", "square")
	v.SetDefault("images.timeout", 30*time.Second)

	v.SetDefault("backup.output_directory", ".")
	v.SetDefault("backup.compress", false)
	v.SetDefault("backup.delay", time.Second)
	v.SetDefault("backup.rate_limit", 0.0)

	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token_path", "")
	v.SetDefault("vault.token_key", "token")
	v.SetDefault("vault.role_id", "")
	v.SetDefault("vault.approle_name", "")

	v.SetDefault("log.file", "backup.log")
	v.SetDefault("log.level", "info")
}

// Load reads the configuration from the given YAML file using Viper,
// applies environment overrides and unmarshals into the Config struct.
// An empty path means defaults and environment only.
func (c *Config) Load(path string) error {
	// A missing .env is not an error
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("storage.token", EnvPrefix+"_STORAGE_TOKEN", LegacyTokenEnv); err != nil {
		return fmt.Errorf("%w: bind token env: %v", ErrLoadConfig, err)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: read config %s: %v", ErrLoadConfig, path, err)
		}
	}

	if err := v.UnmarshalExact(c); err != nil {
		return fmt.Errorf("%w: unmarshal config: %v", ErrLoadConfig, err)
	}

	return c.Validate()
}

// Validate checks the loaded configuration for values the run cannot work with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Storage.Folder) == "" {
		problems = append(problems, "storage.folder is empty")
	}
	if c.Storage.BaseURL == "" {
		problems = append(problems, "storage.base_url is empty")
	}
	if c.Images.BaseURL == "" {
		problems = append(problems, "images.base_url is empty")
	}
	if c.Images.Width <= 0 || c.Images.Height <= 0 {
		problems = append(problems, "images.width and images.height must be positive")
	}
	if c.Storage.AccountTimeout <= 0 || c.Storage.RequestTimeout <= 0 || c.Images.Timeout <= 0 {
		problems = append(problems, "timeouts must be positive")
	}
	if c.Backup.Delay < 0 {
		problems = append(problems, "backup.delay must not be negative")
	}
	if c.Backup.RateLimit < 0 {
		problems = append(problems, "backup.rate_limit must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidateConfig, strings.Join(problems, "; "))
	}
	return nil
}
