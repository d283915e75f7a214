// Package config resolves settings from config.toml, the environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/bnema/random-video-picker/internal/domain"
)

const (
	AppName    = "rvp"
	DataDirApp = "random_video_picker"

	JSONHistoryFile   = "history.json"
	SQLiteHistoryFile = "history.db"

	configName  = "config"
	configType  = "toml"
	envPrefix   = "RVP"
	dataDirMode = 0o700

	KeyScanRoot        = "scan.root"
	KeyScanRecursive   = "scan.recursive"
	KeyScanExtensions  = "scan.extensions"
	KeyScanExclude     = "scan.exclude"
	KeyStreamEnabled   = "stream.enabled"
	KeyStreamHost      = "stream.host"
	KeyStreamPort      = "stream.port"
	KeyStreamShutdown  = "stream.shutdown_timeout"
	KeyLedgerBackend   = "ledger.backend"
	KeyLedgerPath      = "ledger.path"
	KeyLogLevel        = "log.level"
	legacyRootVariable = "DEFAULT_VIDEO_FOLDER"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Scan    ScanConfig
	Stream  StreamConfig
	Ledger  LedgerConfig
	Log     LogConfig
	DataDir string
	// ConfigFile is empty when no config.toml was found.
	ConfigFile string
}

type ScanConfig struct {
	Root       string
	Recursive  bool
	Extensions []string
	Exclude    []string
}

type StreamConfig struct {
	Enabled         bool
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type LedgerConfig struct {
	Backend string
	Path    string
}

type LogConfig struct {
	Level string
}

type Options struct {
	// ConfigDir overrides <user config dir>/rvp.
	ConfigDir string
	// DataDir overrides the platform data directory.
	DataDir string
	// EnvFile is loaded before reading the environment. Defaults to ".env".
	EnvFile string
}

// Load reads configuration into v and returns the resolved settings. The data
// directory is created when missing.
func Load(v *viper.Viper, opts Options) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = filepath.Join(userConfigDir, AppName)
	}

	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyScanRoot, envPrefix+"_SCAN_ROOT", legacyRootVariable); err != nil {
		return Config{}, fmt.Errorf("bind %s: %w", KeyScanRoot, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return Config{}, domain.NewError(domain.KindFatal, "resolve data directory", "", err)
		}
		dataDir = resolveDataDir(runtime.GOOS, os.Getenv, home)
	}
	if err := os.MkdirAll(dataDir, dataDirMode); err != nil {
		return Config{}, domain.NewError(domain.KindFatal, "create data directory", dataDir, err)
	}

	cfg := Config{
		Scan: ScanConfig{
			Root:       strings.TrimSpace(v.GetString(KeyScanRoot)),
			Recursive:  v.GetBool(KeyScanRecursive),
			Extensions: splitList(v.GetStringSlice(KeyScanExtensions)),
			Exclude:    splitList(v.GetStringSlice(KeyScanExclude)),
		},
		Stream: StreamConfig{
			Enabled:         v.GetBool(KeyStreamEnabled),
			Host:            strings.TrimSpace(v.GetString(KeyStreamHost)),
			Port:            v.GetInt(KeyStreamPort),
			ShutdownTimeout: v.GetDuration(KeyStreamShutdown),
		},
		Ledger: LedgerConfig{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyLedgerBackend))),
			Path:    strings.TrimSpace(v.GetString(KeyLedgerPath)),
		},
		Log:        LogConfig{Level: strings.TrimSpace(v.GetString(KeyLogLevel))},
		DataDir:    dataDir,
		ConfigFile: v.ConfigFileUsed(),
	}

	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = filepath.Join(dataDir, ledgerFileName(cfg.Ledger.Backend))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w: ledger.backend %q must be %q or %q", ErrInvalidConfig, c.Ledger.Backend, BackendJSON, BackendSQLite)
	}
	if c.Stream.Port < 0 || c.Stream.Port > 65535 {
		return fmt.Errorf("%w: stream.port %d out of range", ErrInvalidConfig, c.Stream.Port)
	}
	if c.Stream.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: stream.shutdown_timeout must be positive", ErrInvalidConfig)
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("%w: scan.extensions is empty", ErrInvalidConfig)
	}
	return nil
}

// TOML renders the effective configuration in config.toml layout.
func (c Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(toSchema(c))
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

type fileSchema struct {
	Scan   scanSchema   `toml:"scan"`
	Stream streamSchema `toml:"stream"`
	Ledger ledgerSchema `toml:"ledger"`
	Log    logSchema    `toml:"log"`
}

type scanSchema struct {
	Root       string   `toml:"root"`
	Recursive  bool     `toml:"recursive"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

type streamSchema struct {
	Enabled         bool   `toml:"enabled"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

type ledgerSchema struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type logSchema struct {
	Level string `toml:"level"`
}

func toSchema(c Config) fileSchema {
	exclude := c.Scan.Exclude
	if exclude == nil {
		exclude = []string{}
	}
	return fileSchema{
		Scan: scanSchema{
			Root:       c.Scan.Root,
			Recursive:  c.Scan.Recursive,
			Extensions: c.Scan.Extensions,
			Exclude:    exclude,
		},
		Stream: streamSchema{
			Enabled:         c.Stream.Enabled,
			Host:            c.Stream.Host,
			Port:            c.Stream.Port,
			ShutdownTimeout: c.Stream.ShutdownTimeout.String(),
		},
		Ledger: ledgerSchema{Backend: c.Ledger.Backend, Path: c.Ledger.Path},
		Log:    logSchema{Level: c.Log.Level},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyScanRoot, "")
	v.SetDefault(KeyScanRecursive, true)
	v.SetDefault(KeyScanExtensions, domain.DefaultVideoExtensions)
	v.SetDefault(KeyScanExclude, []string{})
	v.SetDefault(KeyStreamEnabled, true)
	v.SetDefault(KeyStreamHost, "0.0.0.0")
	v.SetDefault(KeyStreamPort, 8080)
	v.SetDefault(KeyStreamShutdown, "10s")
	v.SetDefault(KeyLedgerBackend, BackendJSON)
	v.SetDefault(KeyLedgerPath, "")
	v.SetDefault(KeyLogLevel, "warn")
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}

	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveDataDir(goos string, getenv func(string) string, home string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", DataDirApp)
	case "windows":
		if local := getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, DataDirApp)
		}
		return filepath.Join(home, "AppData", "Local", DataDirApp)
	default:
		if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, DataDirApp)
		}
		return filepath.Join(home, ".local", "share", DataDirApp)
	}
}

func ledgerFileName(backend string) string {
	if backend == BackendSQLite {
		return SQLiteHistoryFile
	}
	return JSONHistoryFile
}

// splitList accepts both TOML arrays and comma separated environment values.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
