package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/random-video-picker/internal/domain"
)

type testDirs struct {
	config string
	data   string
	env    string
}

func newTestDirs(t *testing.T) testDirs {
	t.Helper()

	root := t.TempDir()
	return testDirs{
		config: filepath.Join(root, "config", "rvp"),
		data:   filepath.Join(root, "data", DataDirApp),
		env:    filepath.Join(root, "missing.env"),
	}
}

func (d testDirs) options() Options {
	return Options{ConfigDir: d.config, DataDir: d.data, EnvFile: d.env}
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"RVP_SCAN_ROOT", "DEFAULT_VIDEO_FOLDER", "RVP_SCAN_RECURSIVE", "RVP_SCAN_EXTENSIONS",
		"RVP_STREAM_PORT", "RVP_STREAM_ENABLED", "RVP_LEDGER_BACKEND", "RVP_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	cfg, err := Load(viper.New(), dirs.options())
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Scan.Root)
	assert.True(t, cfg.Scan.Recursive)
	assert.Equal(t, domain.DefaultVideoExtensions, cfg.Scan.Extensions)
	assert.Empty(t, cfg.Scan.Exclude)
	assert.True(t, cfg.Stream.Enabled)
	assert.Equal(t, "0.0.0.0", cfg.Stream.Host)
	assert.Equal(t, 8080, cfg.Stream.Port)
	assert.Equal(t, 10*time.Second, cfg.Stream.ShutdownTimeout)
	assert.Equal(t, BackendJSON, cfg.Ledger.Backend)
	assert.Equal(t, filepath.Join(dirs.data, "history.json"), cfg.Ledger.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.ConfigFile)

	info, err := os.Stat(dirs.data)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestLoadReadsConfigFile(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	require.NoError(t, os.MkdirAll(dirs.config, 0o700))
	configPath := filepath.Join(dirs.config, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
[scan]
root = "/srv/media"
recursive = false
extensions = ["mp4", "mkv"]
exclude = ["extras/"]

[stream]
port = 9090
shutdown_timeout = "3s"

[ledger]
backend = "sqlite"
`), 0o600))

	cfg, err := Load(viper.New(), dirs.options())
	require.NoError(t, err)

	assert.Equal(t, "/srv/media", cfg.Scan.Root)
	assert.False(t, cfg.Scan.Recursive)
	assert.Equal(t, []string{"mp4", "mkv"}, cfg.Scan.Extensions)
	assert.Equal(t, []string{"extras/"}, cfg.Scan.Exclude)
	assert.Equal(t, 9090, cfg.Stream.Port)
	assert.Equal(t, 3*time.Second, cfg.Stream.ShutdownTimeout)
	assert.Equal(t, BackendSQLite, cfg.Ledger.Backend)
	assert.Equal(t, filepath.Join(dirs.data, "history.db"), cfg.Ledger.Path)
	assert.Equal(t, configPath, cfg.ConfigFile)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	require.NoError(t, os.MkdirAll(dirs.config, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dirs.config, "config.toml"), []byte("[stream]\nport = 9090\n"), 0o600))

	t.Setenv("RVP_STREAM_PORT", "7000")
	t.Setenv("RVP_SCAN_EXTENSIONS", "mp4, webm")
	t.Setenv("RVP_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), dirs.options())
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Stream.Port)
	assert.Equal(t, []string{"mp4", "webm"}, cfg.Scan.Extensions)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadLegacyDefaultVideoFolder(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	t.Setenv("DEFAULT_VIDEO_FOLDER", "/home/me/Videos")

	cfg, err := Load(viper.New(), dirs.options())
	require.NoError(t, err)
	assert.Equal(t, "/home/me/Videos", cfg.Scan.Root)

	t.Setenv("RVP_SCAN_ROOT", "/preferred")
	cfg, err = Load(viper.New(), dirs.options())
	require.NoError(t, err)
	assert.Equal(t, "/preferred", cfg.Scan.Root)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	dirs.env = filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dirs.env, []byte("DEFAULT_VIDEO_FOLDER=/from/dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DEFAULT_VIDEO_FOLDER") })

	cfg, err := Load(viper.New(), dirs.options())
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.Scan.Root)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "backend", env: map[string]string{"RVP_LEDGER_BACKEND": "postgres"}, want: "ledger.backend"},
		{name: "port", env: map[string]string{"RVP_STREAM_PORT": "70000"}, want: "stream.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(viper.New(), newTestDirs(t).options())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFailsWhenDataDirCannotBeCreated(t *testing.T) {
	clearEnv(t)
	dirs := newTestDirs(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	dirs.data = filepath.Join(blocker, "data")

	_, err := Load(viper.New(), dirs.options())
	require.Error(t, err)
	assert.True(t, domain.IsFatal(err))
	assert.Equal(t, domain.KindFatal, domain.KindOf(err))
}

func TestResolveDataDir(t *testing.T) {
	t.Parallel()

	env := func(values map[string]string) func(string) string {
		return func(key string) string { return values[key] }
	}

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{name: "linux xdg", goos: "linux", env: map[string]string{"XDG_DATA_HOME": "/xdg"}, want: filepath.Join("/xdg", DataDirApp)},
		{name: "linux fallback", goos: "linux", want: filepath.Join("/home/u", ".local", "share", DataDirApp)},
		{name: "darwin", goos: "darwin", env: map[string]string{"XDG_DATA_HOME": "/ignored"}, want: filepath.Join("/home/u", "Library", "Application Support", DataDirApp)},
		{name: "windows", goos: "windows", env: map[string]string{"LOCALAPPDATA": "/local"}, want: filepath.Join("/local", DataDirApp)},
		{name: "windows fallback", goos: "windows", want: filepath.Join("/home/u", "AppData", "Local", DataDirApp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveDataDir(tt.goos, env(tt.env), "/home/u"))
		})
	}
}

func TestConfigTOML(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Scan:   ScanConfig{Root: "/srv/media", Recursive: true, Extensions: []string{"mp4"}},
		Stream: StreamConfig{Enabled: true, Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 10 * time.Second},
		Ledger: LedgerConfig{Backend: BackendJSON, Path: "/data/history.json"},
		Log:    LogConfig{Level: "warn"},
	}

	out, err := cfg.TOML()
	require.NoError(t, err)

	var decoded fileSchema
	require.NoError(t, toml.Unmarshal(out, &decoded))
	assert.Equal(t, "/srv/media", decoded.Scan.Root)
	assert.Equal(t, 8080, decoded.Stream.Port)
	assert.Equal(t, "10s", decoded.Stream.ShutdownTimeout)
	assert.Equal(t, "/data/history.json", decoded.Ledger.Path)
	assert.Contains(t, string(out), "[stream]")
	assert.Contains(t, string(out), "exclude = []")
}
