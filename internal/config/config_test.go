package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigGeneratesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot5.yaml")

	cfg, created, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, created, err = LoadConfig(path)
	require.NoError(t, err)
	require.False(t, created)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
check:
  target_urls: ["http://a/"]
  timeout_seconds: 1.5
  proxy_scheme: socks5
log:
  level: debug
`))
	require.NoError(t, err)
	require.Equal(t, []string{"http://a/"}, cfg.Check.TargetURLs)
	require.Equal(t, 1500*time.Millisecond, cfg.Check.Timeout())
	require.Equal(t, "socks5", cfg.Check.ProxyScheme)
	require.Equal(t, 20, cfg.Check.MaxWorkers)
	require.Equal(t, []int{80, 8080, 3128, 8000, 8888}, cfg.Check.TryPorts)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout())
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want error
	}{
		"no targets":  {"check:\n  target_urls: []\n", ErrNoTargets},
		"timeout":     {"check:\n  timeout_seconds: 0\n", ErrBadTimeout},
		"workers":     {"check:\n  max_workers: -1\n", ErrBadWorkers},
		"port":        {"check:\n  try_ports: [0]\n", ErrBadPort},
		"scheme":      {"check:\n  proxy_scheme: ftp\n", ErrBadScheme},
		"fingerprint": {"check:\n  tls_fingerprint: chrome\n", ErrBadFingerprint},
		"rate":        {"check:\n  rate_per_second: -2\n", ErrBadRate},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("check: [unterminated"))
	require.Error(t, err)
}
