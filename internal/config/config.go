package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration.
const DefaultPath = "dot5.yaml"

var (
	ErrNoTargets      = errors.New("check.target_urls must not be empty")
	ErrBadTimeout     = errors.New("check.timeout_seconds must be > 0")
	ErrBadWorkers     = errors.New("check.max_workers must be > 0")
	ErrBadPort        = errors.New("check.try_ports entries must be in 1-65535")
	ErrBadScheme      = errors.New("check.proxy_scheme must be http or socks5")
	ErrBadFingerprint = errors.New("check.tls_fingerprint must be go or randomized")
	ErrBadRate        = errors.New("check.rate_per_second must be >= 0")
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Check  CheckConfig  `yaml:"check"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Listen          string `yaml:"listen"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type CheckConfig struct {
	TargetURLs      []string `yaml:"target_urls"`
	TimeoutSeconds  float64  `yaml:"timeout_seconds"`
	MaxWorkers      int      `yaml:"max_workers"`
	TryPorts        []int    `yaml:"try_ports"`
	ProxyScheme     string   `yaml:"proxy_scheme"`
	UserAgent       string   `yaml:"user_agent"`
	RandomUserAgent bool     `yaml:"random_user_agent"`
	TLSFingerprint  string   `yaml:"tls_fingerprint"`
	RatePerSecond   float64  `yaml:"rate_per_second"`
	Seed            uint64   `yaml:"seed"`
	FakeSources     []string `yaml:"fake_sources"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Timeout converts TimeoutSeconds to a duration.
func (c CheckConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// ShutdownTimeout converts ShutdownSeconds to a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          "127.0.0.1:8000",
			ShutdownSeconds: 5,
		},
		Check: CheckConfig{
			TargetURLs:     []string{"http://httpbin.org/ip", "http://example.com/"},
			TimeoutSeconds: 6.0,
			MaxWorkers:     20,
			TryPorts:       []int{80, 8080, 3128, 8000, 8888},
			ProxyScheme:    "http",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			TLSFingerprint: "go",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads the YAML file at path on top of Default. When the file
// does not exist a commented default file is written there first; created
// reports whether that happened.
func LoadConfig(path string) (cfg *Config, created bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("read config: %w", err)
		}
		if err := WriteDefault(path); err != nil {
			return nil, false, err
		}
		created = true
		data = []byte(defaultConfigContent)
	}

	cfg, err = Parse(data)
	if err != nil {
		return nil, created, err
	}
	return cfg, created, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the checker cannot work without.
func (c *Config) Validate() error {
	ch := c.Check
	if len(ch.TargetURLs) == 0 {
		return ErrNoTargets
	}
	if ch.TimeoutSeconds <= 0 {
		return ErrBadTimeout
	}
	if ch.MaxWorkers <= 0 {
		return ErrBadWorkers
	}
	for _, p := range ch.TryPorts {
		if p < 1 || p > 65535 {
			return fmt.Errorf("%w: %d", ErrBadPort, p)
		}
	}
	switch ch.ProxyScheme {
	case "http", "socks5":
	default:
		return fmt.Errorf("%w: %q", ErrBadScheme, ch.ProxyScheme)
	}
	switch ch.TLSFingerprint {
	case "go", "randomized":
	default:
		return fmt.Errorf("%w: %q", ErrBadFingerprint, ch.TLSFingerprint)
	}
	if ch.RatePerSecond < 0 {
		return ErrBadRate
	}
	return nil
}

// WriteDefault writes the commented default configuration to path.
func WriteDefault(path string) error {
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

const defaultConfigContent = `# dot5.yaml

# HTTP front end
server:
  listen: "127.0.0.1:8000"
  shutdown_seconds: 5

# Verification defaults (requests may override timeout, workers and ports)
check:
  target_urls:                  # tried in order until one answers 2xx/3xx
    - "http://httpbin.org/ip"
    - "http://example.com/"
  timeout_seconds: 6.0          # per request
  max_workers: 20               # candidates probed in parallel
  try_ports: [80, 8080, 3128, 8000, 8888]   # used for lines without a port
  proxy_scheme: "http"          # http or socks5
  user_agent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
  random_user_agent: false
  tls_fingerprint: "go"         # go or randomized (uTLS, https targets only)
  rate_per_second: 0            # 0 = start probes as fast as workers allow
  seed: 0                       # 0 = random; fixes fake-source attribution otherwise
  # fake_sources:               # attribution catalog; built-in list when unset
  #   - "https://free-proxy-list.net/"

log:
  level: "info"                 # trace, debug, info, warn, error
  format: "text"                # text or json
`
