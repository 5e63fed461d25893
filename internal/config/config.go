// Package config loads wisebrief configuration from a JSON config file
// with environment variable overrides.
package config

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Wise    WiseConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type WiseConfig struct {
	BaseURL string
	APIKey  string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Wise: WiseConfig{
			BaseURL: "http://localhost:8000",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file at
// $XDG_CONFIG_HOME/wisebrief/config.json, then applies WISEBRIEF_*
// environment variable overrides. The upstream API key is a secret and
// is read from the environment only.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
