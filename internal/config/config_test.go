package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":3000", c.Server.Listen)
	require.Equal(t, 10*time.Second, c.Common.JSONTimeout)
	require.Equal(t, 30*time.Second, c.Common.XMLTimeout)
	require.Equal(t, 2*time.Minute, c.Common.Interval)
	require.Equal(t, "Cloud-Status-Monitor/1.0", c.Common.UserAgent)
	require.Equal(t, "Cloud Status Monitor", c.Feed.Title)
	require.Empty(t, c.Providers)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
common:
  json_timeout: 5s
  interval: 30s
  log_level: debug
providers:
  - id: azure
    name: Microsoft Azure
    api_url: https://rssfeed.azure.status.microsoft/en-us/status/feed/
    format: rss
    insecure_skip_verify: true
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", c.Server.Listen)
	require.Equal(t, 5*time.Second, c.Common.JSONTimeout)
	require.Equal(t, 30*time.Second, c.Common.XMLTimeout)
	require.Equal(t, 30*time.Second, c.Common.Interval)
	require.Equal(t, "debug", c.Common.LogLevel)
	require.Len(t, c.Providers, 1)
	require.Equal(t, "rss", c.Providers[0].Format)
	require.True(t, c.Providers[0].InsecureSkipVerify)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "server: [unclosed"))
	require.ErrorContains(t, err, "parse yaml")

	_, err = Load(writeConfig(t, "providers:\n  - name: nameless\n    api_url: https://example.com\n"))
	require.ErrorContains(t, err, "id is required")

	_, err = Load(writeConfig(t, "providers:\n  - id: x\n"))
	require.ErrorContains(t, err, "api_url is required")
}
