// Package settings loads generator configuration from the environment.
package settings

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings controls where the repository is generated and the values baked
// into its aggregate documents. Every field has a default so that a bare run
// is reproducible.
type Settings struct {
	OutputDir     string `env:"ENDGAMES_OUTPUT_DIR" envDefault:"2026-endgames"`
	Maintainer    string `env:"ENDGAMES_MAINTAINER" envDefault:"ORIGNALBLUE"`
	LastUpdated   string `env:"ENDGAMES_LAST_UPDATED" envDefault:"2025-12-10"`
	LicenseHolder string `env:"ENDGAMES_LICENSE_HOLDER" envDefault:"Your Name"`
	LicenseYear   int    `env:"ENDGAMES_LICENSE_YEAR" envDefault:"2025"`
	LogLevel      string `env:"ENDGAMES_LOG_LEVEL" envDefault:"info"`
}

// Load parses Settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Default returns Settings with every default applied, ignoring the environment.
func Default() Settings {
	return Settings{
		OutputDir:     "2026-endgames",
		Maintainer:    "ORIGNALBLUE",
		LastUpdated:   "2025-12-10",
		LicenseHolder: "Your Name",
		LicenseYear:   2025,
		LogLevel:      "info",
	}
}
