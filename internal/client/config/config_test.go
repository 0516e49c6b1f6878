package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	require.Equal(t, "finapp.db", cfg.LocalDBPath)
	require.Equal(t, 2*time.Second, cfg.SplashMinDisplay)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd", "-a", "http://example.org:9000", "-s", "500ms"}

	cfg := LoadConfig()
	require.Equal(t, "http://example.org:9000", cfg.ServerBaseURL)
	require.Equal(t, 500*time.Millisecond, cfg.SplashMinDisplay)
	require.Equal(t, "finapp.db", cfg.LocalDBPath, "untouched fields keep defaults")
}

func TestLoadConfig_JsonOverlayAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_base_url": "http://json:1111",
		"local_db_path": "json.db",
		"splash_min_display": "3s"
	}`), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cmd", "-c", path, "-a", "http://flag:2222"}

	cfg := LoadConfig()
	require.Equal(t, "http://flag:2222", cfg.ServerBaseURL, "flags beat JSON")
	require.Equal(t, "json.db", cfg.LocalDBPath)
	require.Equal(t, 3*time.Second, cfg.SplashMinDisplay)
}
