package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{"API_BASE_URL", "DOCQA_API_BASE_URL", "DOCQA_COMPANY_ID", "DOCQA_THEME", "DOCQA_INDENT_UNIT", "DOCQA_TIMEOUT", "DOCQA_VERBOSE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, &Config{
		APIBaseURL: DefaultAPIBaseURL,
		Theme:      DefaultTheme,
		IndentUnit: DefaultIndentUnit,
	}, cfg)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("API_BASE_URL", "http://api.internal:9000")
	t.Setenv("DOCQA_COMPANY_ID", " acme ")
	t.Setenv("DOCQA_TIMEOUT", "30s")
	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	require.Equal(t, "acme", cfg.CompanyID)
	require.Equal(t, 30*time.Second, cfg.Timeout)

	t.Setenv("DOCQA_API_BASE_URL", "https://docqa.example.com")
	cfg, err = Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "https://docqa.example.com", cfg.APIBaseURL)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docqa"), 0o755))
	body := "company_id: acme\ntheme: dark\nindent_unit: 10\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docqa", "config.yaml"), []byte(body), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "acme", cfg.CompanyID)
	require.Equal(t, "dark", cfg.Theme)
	require.Equal(t, 10, cfg.IndentUnit)
	require.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://other:8080\n"), 0o644))
	cfg, err := Load(New(), path)
	require.NoError(t, err)
	require.Equal(t, "http://other:8080", cfg.APIBaseURL)

	_, err = Load(New(), filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	isolate(t)
	t.Setenv("DOCQA_INDENT_UNIT", "-1")
	_, err := Load(New(), "")
	require.ErrorContains(t, err, "indent_unit")

	t.Setenv("DOCQA_INDENT_UNIT", "")
	require.NoError(t, os.Unsetenv("DOCQA_INDENT_UNIT"))
	t.Setenv("DOCQA_TIMEOUT", "-1s")
	_, err = Load(New(), "")
	require.ErrorContains(t, err, "timeout")
}

func TestBindFlagsOverridesEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DOCQA_COMPANY_ID", "from-env")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("company-id", "", "")
	flags.String("theme", DefaultTheme, "")
	flags.Int("indent-unit", DefaultIndentUnit, "")
	flags.Bool("unrelated", false, "")
	require.NoError(t, flags.Parse([]string{"--company-id", "from-flag", "--indent-unit", "8"}))

	v := New()
	require.NoError(t, BindFlags(v, flags))
	cfg, err := Load(v, "")
	require.NoError(t, err)
	require.Equal(t, "from-flag", cfg.CompanyID)
	require.Equal(t, 8, cfg.IndentUnit)
	require.Equal(t, DefaultTheme, cfg.Theme)
	require.False(t, v.IsSet("unrelated"))
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "docqa"), dir)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	dir, err = Dir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "docqa"), dir)
}
