package toml

import "fmt"

const currentSchemaVersion = 1

// settingsSchema is the on-disk shape. The legacy JSON file uses the same keys.
type settingsSchema struct {
	Version     int    `toml:"version"`
	PortalID    string `toml:"portal_id"`
	PortalURL   string `toml:"portal_url,omitempty"`
	UserID      string `toml:"user_id"`
	Password    string `toml:"password,omitempty"`
	PasswordRef string `toml:"password_ref,omitempty"`
}

func (s *settingsSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s settingsSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}
