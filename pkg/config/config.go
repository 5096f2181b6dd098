/*
Package config manages TOML (or YAML) config for kanaserve.

The default file lives at [ConfigDir]/kanaserve/config.toml and is written with
built-in defaults the first time it is missing. A file that fails to decode is
recovered section by section where possible; anything unusable falls back to
defaults rather than stopping the server.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/learning"
	"github.com/charmbracelet/log"
)

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config holds the entire config structure
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Dict      DictConfig      `toml:"dict" yaml:"dict"`
	Learning  LearningConfig  `toml:"learning" yaml:"learning"`
	Tokenizer TokenizerConfig `toml:"tokenizer" yaml:"tokenizer"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
	CLI       CliConfig       `toml:"cli" yaml:"cli"`
}

// ServerConfig has suggest and transport options.
type ServerConfig struct {
	MaxCandidates int `toml:"max_candidates" yaml:"max_candidates"`
	MinReading    int `toml:"min_reading" yaml:"min_reading"`
	QueueSize     int `toml:"queue_size" yaml:"queue_size"`
}

// DictConfig names the dictionary source. Path may be a file or an http(s) URL.
type DictConfig struct {
	Path     string `toml:"path" yaml:"path"`
	Encoding string `toml:"encoding" yaml:"encoding"`
}

// LearningConfig selects where commit counts are persisted.
type LearningConfig struct {
	Backend   string `toml:"backend" yaml:"backend"`
	Path      string `toml:"path" yaml:"path"`
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`
	RedisKey  string `toml:"redis_key" yaml:"redis_key"`
}

type TokenizerConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultMode  string `toml:"default_mode" yaml:"default_mode"`
	DefaultLimit int    `toml:"default_limit" yaml:"default_limit"`
}

// GetConfigDir returns the config directory, falling back to the
// executable's directory when the user config dir is not writable.
func GetConfigDir() (string, error) {
	dir, err := utils.ResolveConfigDir()
	if err != nil {
		log.Errorf("Failed to resolve config directory: %v", err)
		return "", err
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [ConfigDir]/kanaserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			if errors.Is(err, ErrUnknownFormat) {
				return nil, "", err
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxCandidates: 20,
			MinReading:    kana.DefaultMinReading,
			QueueSize:     256,
		},
		Dict: DictConfig{
			Path:     "",
			Encoding: dictionary.EncodingAuto.String(),
		},
		Learning: LearningConfig{
			Backend:  learning.BackendMemory,
			RedisKey: learning.DefaultRedisKey,
		},
		Tokenizer: TokenizerConfig{Enabled: false},
		Metrics:   MetricsConfig{Addr: ""},
		CLI: CliConfig{
			DefaultMode:  kana.Hiragana.String(),
			DefaultLimit: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadConfig loads a TOML or YAML file over the defaults and normalizes it.
func LoadConfig(configPath string) (*Config, error) {
	format, err := formatOf(configPath)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch format {
	case "yaml":
		if err := utils.LoadYAMLFile(configPath, config); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	default:
		if err := utils.LoadTOMLFile(configPath, config); err != nil {
			config, err = tryPartialParse(configPath)
			if err != nil {
				return nil, err
			}
		}
	}
	config.Normalize()
	return config, nil
}

// tryPartialParse recovers the values that still parse from a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "learning"); ok {
		extractLearningConfig(section, &config.Learning)
	}
	if section, ok := utils.ExtractSection(tempConfig, "tokenizer"); ok {
		if val, ok := utils.ExtractBool(section, "enabled"); ok {
			config.Tokenizer.Enabled = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "metrics"); ok {
		if val, ok := utils.ExtractString(section, "addr"); ok {
			config.Metrics.Addr = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		server.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "min_reading"); ok {
		server.MinReading = val
	}
	if val, ok := utils.ExtractInt64(data, "queue_size"); ok {
		server.QueueSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		dict.Encoding = val
	}
}

func extractLearningConfig(data map[string]any, l *LearningConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		l.Backend = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		l.Path = val
	}
	if val, ok := utils.ExtractString(data, "redis_addr"); ok {
		l.RedisAddr = val
	}
	if val, ok := utils.ExtractString(data, "redis_key"); ok {
		l.RedisKey = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "default_mode"); ok {
		cli.DefaultMode = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// Normalize clamps out-of-range values and replaces invalid names with
// defaults, logging each change.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Server.MaxCandidates <= 0 || c.Server.MaxCandidates > def.Server.MaxCandidates {
		log.Warnf("server.max_candidates=%d out of range, using %d", c.Server.MaxCandidates, def.Server.MaxCandidates)
		c.Server.MaxCandidates = def.Server.MaxCandidates
	}
	if c.Server.MinReading < 1 {
		log.Warnf("server.min_reading=%d below 1, using 1", c.Server.MinReading)
		c.Server.MinReading = 1
	}
	if c.Server.QueueSize <= 0 {
		c.Server.QueueSize = def.Server.QueueSize
	}
	if _, err := dictionary.ParseEncoding(c.Dict.Encoding); err != nil {
		log.Warnf("%v, using %s", err, def.Dict.Encoding)
		c.Dict.Encoding = def.Dict.Encoding
	}
	switch strings.ToLower(c.Learning.Backend) {
	case "", learning.BackendMemory, learning.BackendFile, learning.BackendSQLite, learning.BackendRedis:
	default:
		log.Warnf("learning.backend=%q unknown, using %s", c.Learning.Backend, def.Learning.Backend)
		c.Learning.Backend = def.Learning.Backend
	}
	if c.Learning.RedisKey == "" {
		c.Learning.RedisKey = def.Learning.RedisKey
	}
	if _, err := kana.ParseMode(c.CLI.DefaultMode); err != nil {
		c.CLI.DefaultMode = def.CLI.DefaultMode
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
}

// LearningPath returns Learning.Path, or a file under the data dir named
// after the backend when unset.
func (c *Config) LearningPath() string {
	if c.Learning.Path != "" {
		return c.Learning.Path
	}
	switch strings.ToLower(c.Learning.Backend) {
	case learning.BackendSQLite:
		return filepath.Join(utils.DataDir(), "learning.db")
	default:
		return filepath.Join(utils.DataDir(), "learning.msgpack")
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig writes TOML or YAML depending on the extension.
func SaveConfig(config *Config, configPath string) error {
	format, err := formatOf(configPath)
	if err != nil {
		return err
	}
	if format == "yaml" {
		return utils.WriteFileAtomic(configPath, utils.EncodeYAML(config))
	}
	return utils.WriteFileAtomic(configPath, utils.EncodeTOML(config))
}
