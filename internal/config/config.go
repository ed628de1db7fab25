package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// defaultConfigPath is used when no --config flag is given.
const defaultConfigPath = "configs/campusctl.yaml"

type Config struct {
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type APIConfig struct {
	// BaseURL is the root of the platform REST API, including the version
	// prefix (e.g. http://localhost:5000/api/v1).
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	// TokenFile is where the bearer token is persisted between runs.
	// Empty means <user config dir>/campusctl/token.json.
	TokenFile string `yaml:"token_file"`
	// EncryptionKey is an optional hex-encoded 32-byte key. When set, the
	// persisted token is encrypted at rest.
	EncryptionKey string `yaml:"encryption_key"`
}

type DevServerConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Load reads the config file at path (optional), expanding ${VAR} references,
// and applies environment overrides. A .env file in the working directory is
// loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api/v1",
			Timeout: 30 * time.Second,
		},
		DevServer: DevServerConfig{
			Host:      "127.0.0.1",
			Port:      5000,
			JWTSecret: "devserver-not-a-secret",
			TokenTTL:  24 * time.Hour,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CAMPUSCTL_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("CAMPUSCTL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := os.Getenv("CAMPUSCTL_TOKEN_FILE"); v != "" {
		cfg.Session.TokenFile = v
	}
	if v := os.Getenv("CAMPUSCTL_TOKEN_KEY"); v != "" {
		cfg.Session.EncryptionKey = v
	}
	if v := os.Getenv("CAMPUSCTL_DEVSERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.DevServer.Port = port
		}
	}
	if v := os.Getenv("CAMPUSCTL_JWT_SECRET"); v != "" {
		cfg.DevServer.JWTSecret = v
	}
}

// TokenFilePath resolves the token file location, falling back to the
// per-user config directory.
func (c *Config) TokenFilePath() (string, error) {
	if c.Session.TokenFile != "" {
		return c.Session.TokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "campusctl", "token.json"), nil
}

func (c *Config) DevServerAddr() string {
	return fmt.Sprintf("%s:%d", c.DevServer.Host, c.DevServer.Port)
}
