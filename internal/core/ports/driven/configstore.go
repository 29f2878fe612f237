package driven

import "github.com/culturo-labs/culturo-cli/internal/core/domain"

// ConfigStore persists application settings.
// Backed by a TOML file in the culturo config directory.
type ConfigStore interface {
	// Load reads the stored settings, falling back to defaults for a
	// missing file.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error

	// Path returns the backing file path, for diagnostics.
	Path() string
}
