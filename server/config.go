package server

import (
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the relay's runtime configuration, from a TOML file with
// environment overrides on top.
type Config struct {
	Addr string `toml:"addr"`
	// advisory per-turn seconds carried in room state, not enforced here
	TurnSeconds int      `toml:"turn_seconds"`
	Origins     []string `toml:"origins"`
}

func DefaultConfig() Config {
	return Config{
		Addr:        "0.0.0.0:8090",
		TurnSeconds: 30,
		Origins:     []string{"localhost:8090"},
	}
}

// LoadConfig reads the TOML file when there is one, then applies HS_ADDR
// and HS_TURN_SECONDS from the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if addr := os.Getenv("HS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if ts := os.Getenv("HS_TURN_SECONDS"); ts != "" {
		n, err := strconv.Atoi(ts)
		if err == nil && n > 0 {
			cfg.TurnSeconds = n
		}
	}

	return cfg, nil
}
