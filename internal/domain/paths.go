package domain

import "path/filepath"

const AppName = "klientenportal"

// Paths is the filesystem layout, resolved once at startup.
type Paths struct {
	WorkspaceRoot string
	TmpRoot       string
}

func (p Paths) ConfigDir() string {
	return filepath.Join(p.WorkspaceRoot, AppName)
}

// ProfileDir holds the persistent browser profile. At most one live automation session may use it.
func (p Paths) ProfileDir() string {
	return filepath.Join(p.ConfigDir(), ".pw-profile")
}

func (p Paths) SecretsDir() string {
	return filepath.Join(p.ConfigDir(), "secrets")
}

func (p Paths) DefaultOutputDir() string {
	return filepath.Join(p.TmpRoot, "openclaw", AppName)
}
