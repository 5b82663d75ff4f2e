package shieldedrecv

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config carries the host-specific middleware parameters.
type Config struct {
	// MaspAddress is the shielded pool address receivers are checked
	// against, rendered in the host chain's account encoding.
	MaspAddress string `json:"masp_address" toml:"masp_address"`
	// LogLevel sets the zerolog level for this middleware's diagnostics.
	LogLevel string `json:"log_level,omitempty" toml:"log_level,omitempty"`
}

func (c *Config) Validate() error {
	if c.MaspAddress == "" {
		return fmt.Errorf("masp_address must be set")
	}
	return nil
}

// MustLoadConfig reads a TOML config from path.
func MustLoadConfig(path string) *Config {
	cfg := &Config{}
	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	if err = toml.Unmarshal(file, cfg); err != nil {
		panic(err)
	}
	if err = cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
