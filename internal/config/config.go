package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings. Defaults match the demo deployment; the
// JWT secret must be overridden outside of demos.
type Config struct {
	Port      int    `yaml:"port"`
	StorePath string `yaml:"store_path"`
	StaticDir string `yaml:"static_dir"`
	JWTSecret string `yaml:"jwt_secret"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:      3002,
		StorePath: "database.json",
		StaticDir: "static",
		JWTSecret: "tubos_secreto_universidad_2024",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets the environment override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("TUBOS_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("TUBOS_STORE_PATH"); v != "" {
		c.StorePath = v
	}
}
